package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// stderrTail bounds how much ffmpeg diagnostic output is kept for
	// errors.
	stderrTail = 512
	// waitDelay bounds how long Close waits for ffmpeg's output pipes after
	// the process is killed.
	waitDelay = 2 * time.Second
)

// Transcoder extracts the audio track of a video file as raw PCM using
// ffmpeg.
type Transcoder struct {
	// FFmpeg is the ffmpeg binary. Defaults to "ffmpeg" looked up in PATH.
	FFmpeg string
	Input  string
}

// Args returns the ffmpeg arguments used to transcode t.Input.
func (t *Transcoder) Args() []string {
	return []string{
		"-nostdin",
		"-loglevel", "error",
		"-i", t.Input,
		"-vn",
		"-ac", strconv.Itoa(Channels),
		"-ar", strconv.Itoa(SampleRate),
		"-b:a", Bitrate,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"pipe:1",
	}
}

// Open starts ffmpeg and returns its stdout. Closing the stream stops
// ffmpeg.
func (t *Transcoder) Open(ctx context.Context) (io.ReadCloser, error) {
	bin := t.FFmpeg
	if bin == "" {
		bin = "ffmpeg"
	}

	path, err := exec.LookPath(bin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFFmpegNotFound, err)
	}

	ctx, cancel := context.WithCancel(ctx)

	//nolint:gosec // Input path is a user-provided CLI argument.
	cmd := exec.CommandContext(ctx, path, t.Args()...)

	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()

		return nil, fmt.Errorf("%w: creating stdout pipe: %w", ErrTranscode, err)
	}

	err = cmd.Start()
	if err != nil {
		cancel()

		return nil, fmt.Errorf("%w: starting ffmpeg: %w", ErrTranscode, err)
	}

	return &transcodeStream{
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
		cancel: cancel,
	}, nil
}

type transcodeStream struct {
	cmd      *exec.Cmd
	stdout   io.ReadCloser
	stderr   *bytes.Buffer
	cancel   context.CancelFunc
	closeErr error
	once     sync.Once
	mu       sync.Mutex
	eof      bool
}

func (s *transcodeStream) Read(p []byte) (int, error) {
	n, err := s.stdout.Read(p)

	switch {
	case errors.Is(err, io.EOF):
		s.mu.Lock()
		s.eof = true
		s.mu.Unlock()
	case errors.Is(err, os.ErrClosed):
		err = ErrStreamClosed
	}

	return n, err
}

// Close stops ffmpeg and waits for it to exit. A process killed before it
// finished on its own reports [ErrStreamClosed].
func (s *transcodeStream) Close() error {
	s.once.Do(func() {
		s.mu.Lock()
		finished := s.eof
		s.mu.Unlock()

		s.cancel()

		err := s.cmd.Wait()
		switch {
		case err == nil:
		case !finished:
			s.closeErr = ErrStreamClosed
		default:
			s.closeErr = fmt.Errorf("%w: %w: %s", ErrTranscode, err, tail(s.stderr.String()))
		}
	})

	return s.closeErr
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTail {
		s = s[len(s)-stderrTail:]
	}

	return s
}
