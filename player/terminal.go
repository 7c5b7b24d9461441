package player

import (
	"bufio"
	"io"

	"go.jacobcolvin.com/asciiplay/frames"
)

// ClearScreen clears the whole screen and moves the cursor home.
const ClearScreen = "\x1b[2J\x1b[H"

// Renderer draws a frame.
type Renderer interface {
	Render(f frames.Frame) error
}

// Terminal renders frames as raw text on a terminal.
//
// Create instances with [NewTerminal].
type Terminal struct {
	w *bufio.Writer
}

// NewTerminal creates a [Terminal] writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: bufio.NewWriter(w)}
}

// Render clears the screen and writes the frame content verbatim in a
// single flush.
func (t *Terminal) Render(f frames.Frame) error {
	_, err := t.w.WriteString(ClearScreen)
	if err != nil {
		return err
	}

	_, err = t.w.WriteString(f.Content)
	if err != nil {
		return err
	}

	return t.w.Flush()
}
