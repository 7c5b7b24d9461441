package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/go-mp3"
)

// MP3File decodes an mp3 file to raw PCM without spawning ffmpeg. The
// decoder always produces 16-bit stereo; only 44.1 kHz files are accepted.
type MP3File struct {
	Path string
}

// Open opens and decodes the file header.
func (m *MP3File) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(m.Path) //nolint:gosec // Audio path from CLI flag is expected.
	if err != nil {
		return nil, err
	}

	dec, err := mp3.NewDecoder(f)
	if err != nil {
		must(f.Close())

		return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedFormat, m.Path, err)
	}

	if dec.SampleRate() != SampleRate {
		must(f.Close())

		return nil, fmt.Errorf("%w: %s: sample rate %d Hz, want %d Hz",
			ErrUnsupportedFormat, m.Path, dec.SampleRate(), SampleRate)
	}

	return &mp3Stream{dec: dec, f: f}, nil
}

type mp3Stream struct {
	dec *mp3.Decoder
	f   *os.File
}

func (s *mp3Stream) Read(p []byte) (int, error) {
	return s.dec.Read(p)
}

func (s *mp3Stream) Close() error {
	return s.f.Close()
}

// SourceFor returns the [Source] for path: an [MP3File] for ".mp3" files,
// otherwise a [Transcoder] running ffmpeg.
func SourceFor(path, ffmpeg string) Source {
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		return &MP3File{Path: path}
	}

	return &Transcoder{FFmpeg: ffmpeg, Input: path}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
