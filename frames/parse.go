package frames

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Sentinel errors returned while loading frames.
var (
	ErrLoad               = errors.New("load frames")
	ErrMalformedBlock     = errors.New("malformed frame block")
	ErrMalformedTimestamp = errors.New("malformed timestamp")
)

// Load reads and parses the frame file at path and logs the number of
// frames loaded to logger. A nil logger discards the log entry.
//
// Loading is all-or-nothing: any malformed block fails the whole load and
// no frames are returned. A missing file keeps [fs.ErrNotExist] in the error
// chain.
func Load(path string, logger *slog.Logger) (*Store, error) {
	b, err := os.ReadFile(path) //nolint:gosec // Frame path from CLI argument is expected.
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	fs, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}

	if logger != nil {
		logger.Info("loaded frames",
			slog.String("path", path),
			slog.Int("count", len(fs)),
		)
	}

	return NewStore(fs), nil
}

// Parse decodes frame blocks from r in file order.
//
// Blocks are separated by a blank line. Blocks that contain only whitespace
// are skipped. Content lines are kept verbatim, including lines made of
// spaces only.
func Parse(r io.Reader) ([]Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	var out []Frame

	for i, block := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}

		f, err := parseBlock(strings.Trim(block, "\n"))
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}

		out = append(out, f)
	}

	return out, nil
}

func parseBlock(block string) (Frame, error) {
	lines := strings.Split(block, "\n")
	if len(lines) < 3 {
		return Frame{}, fmt.Errorf("%w: want at least 3 lines, got %d", ErrMalformedBlock, len(lines))
	}

	seq, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return Frame{}, fmt.Errorf("%w: sequence number: %w", ErrMalformedBlock, err)
	}

	start, end, err := parseRange(lines[1])
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		Seq:     seq,
		Start:   start,
		End:     end,
		Content: strings.Join(lines[2:], "\n"),
	}, nil
}

// Encode writes fs to w in the frame file format understood by [Parse].
func Encode(w io.Writer, fs []Frame) error {
	bw := bufio.NewWriter(w)

	for _, f := range fs {
		_, err := fmt.Fprintf(bw, "%d\n%s %s %s\n%s\n\n",
			f.Seq, FormatTimestamp(f.Start), rangeSeparator, FormatTimestamp(f.End), f.Content)
		if err != nil {
			return err
		}
	}

	return bw.Flush()
}
