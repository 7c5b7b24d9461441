package audio

import (
	"context"
	"errors"
	"io"
	"os"
)

// PCM stream parameters shared by every source and device.
const (
	SampleRate     = 44100
	Channels       = 2
	BytesPerSample = 2
	Bitrate        = "128k"
)

// Sentinel errors returned by audio sources, devices, and pipelines.
var (
	ErrStreamClosed           = errors.New("output stream closed")
	ErrFFmpegNotFound         = errors.New("ffmpeg not found")
	ErrTranscode              = errors.New("transcode audio")
	ErrUnsupportedFormat      = errors.New("unsupported audio format")
	ErrDevice                 = errors.New("audio device")
	ErrAlreadyStarted         = errors.New("audio pipeline already started")
	ErrUnknownBackend         = errors.New("unknown audio backend")
	ErrInvalidFramesPerBuffer = errors.New("invalid frames per buffer")
)

// Source opens a raw PCM stream.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Device plays a raw PCM stream.
type Device interface {
	// Play blocks until r is exhausted or ctx is done.
	Play(ctx context.Context, r io.Reader) error
	Close() error
}

// IsBenign reports whether err only signals that the stream was shut down
// on purpose.
func IsBenign(err error) bool {
	return errors.Is(err, ErrStreamClosed) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}
