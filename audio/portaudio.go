package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// DefaultFramesPerBuffer is the PortAudio buffer size in sample frames.
const DefaultFramesPerBuffer = 1024

// PortAudioDevice plays PCM through [github.com/gordonklaus/portaudio].
//
// Create instances with [NewPortAudioDevice].
type PortAudioDevice struct {
	stream    *portaudio.Stream
	buf       []int16
	raw       []byte
	closeOnce sync.Once
	closeErr  error
}

// NewPortAudioDevice initializes PortAudio and opens the default output
// stream with the given buffer size.
func NewPortAudioDevice(framesPerBuffer int) (*PortAudioDevice, error) {
	if framesPerBuffer < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFramesPerBuffer, framesPerBuffer)
	}

	err := portaudio.Initialize()
	if err != nil {
		return nil, fmt.Errorf("%w: initialize portaudio: %w", ErrDevice, err)
	}

	d := &PortAudioDevice{
		buf: make([]int16, framesPerBuffer*Channels),
		raw: make([]byte, framesPerBuffer*Channels*BytesPerSample),
	}

	d.stream, err = portaudio.OpenDefaultStream(0, Channels, SampleRate, framesPerBuffer, d.buf)
	if err != nil {
		must(portaudio.Terminate())

		return nil, fmt.Errorf("%w: open portaudio stream: %w", ErrDevice, err)
	}

	return d, nil
}

// Play streams r to the device until r is exhausted or ctx is done.
func (d *PortAudioDevice) Play(ctx context.Context, r io.Reader) error {
	err := d.stream.Start()
	if err != nil {
		return fmt.Errorf("%w: start stream: %w", ErrDevice, err)
	}

	defer func() {
		//nolint:errcheck // Stopping an already stopped stream is harmless.
		d.stream.Stop()
	}()

	for {
		err = ctx.Err()
		if err != nil {
			return err
		}

		_, err = readSamples(r, d.raw, d.buf)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		err = d.stream.Write()
		if err != nil {
			return fmt.Errorf("%w: write stream: %w", ErrDevice, err)
		}
	}
}

// Close closes the stream and terminates PortAudio. Idempotent.
func (d *PortAudioDevice) Close() error {
	d.closeOnce.Do(func() {
		err := d.stream.Close()
		if err != nil {
			d.closeErr = fmt.Errorf("%w: close stream: %w", ErrDevice, err)
		}

		err = portaudio.Terminate()
		if err != nil && d.closeErr == nil {
			d.closeErr = fmt.Errorf("%w: terminate portaudio: %w", ErrDevice, err)
		}
	})

	return d.closeErr
}
