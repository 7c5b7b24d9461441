package audio_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/asciiplay/audio"
)

func TestIsBenign(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  error
		want bool
	}{
		"nil":              {err: nil, want: false},
		"stream closed":    {err: audio.ErrStreamClosed, want: true},
		"wrapped closed":   {err: fmt.Errorf("play: %w", audio.ErrStreamClosed), want: true},
		"context canceled": {err: context.Canceled, want: true},
		"file closed":      {err: os.ErrClosed, want: true},
		"closed pipe":      {err: io.ErrClosedPipe, want: true},
		"transcode":        {err: audio.ErrTranscode, want: false},
		"other":            {err: errors.New("device unplugged"), want: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, audio.IsBenign(tc.err))
		})
	}
}

func TestSourceFor(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		path string
		want audio.Source
	}{
		"video": {
			path: "clip.mp4",
			want: &audio.Transcoder{FFmpeg: "ff", Input: "clip.mp4"},
		},
		"mp3": {
			path: "track.mp3",
			want: &audio.MP3File{Path: "track.mp3"},
		},
		"mp3 upper case": {
			path: "TRACK.MP3",
			want: &audio.MP3File{Path: "TRACK.MP3"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, audio.SourceFor(tc.path, "ff"))
		})
	}
}

func TestTranscoderArgs(t *testing.T) {
	t.Parallel()

	tr := &audio.Transcoder{Input: "in.mp4"}
	assert.Equal(t, []string{
		"-nostdin",
		"-loglevel", "error",
		"-i", "in.mp4",
		"-vn",
		"-ac", "2",
		"-ar", "44100",
		"-b:a", "128k",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"pipe:1",
	}, tr.Args())
}

func TestTranscoderMissingBinary(t *testing.T) {
	t.Parallel()

	tr := &audio.Transcoder{FFmpeg: "asciiplay-no-such-ffmpeg", Input: "in.mp4"}

	_, err := tr.Open(t.Context())
	require.ErrorIs(t, err, audio.ErrFFmpegNotFound)
}

// fakeFFmpeg writes an executable shell script standing in for ffmpeg.
func fakeFFmpeg(t *testing.T, script string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o700))

	return path
}

func TestTranscoderStream(t *testing.T) {
	t.Parallel()

	t.Run("reads stdout", func(t *testing.T) {
		t.Parallel()

		tr := &audio.Transcoder{FFmpeg: fakeFFmpeg(t, "printf 'pcm!'"), Input: "in.mp4"}

		rc, err := tr.Open(t.Context())
		require.NoError(t, err)

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "pcm!", string(data))
		require.NoError(t, rc.Close())
	})

	t.Run("reports failure with stderr", func(t *testing.T) {
		t.Parallel()

		tr := &audio.Transcoder{FFmpeg: fakeFFmpeg(t, "echo 'no audio stream' >&2; exit 1"), Input: "in.mp4"}

		rc, err := tr.Open(t.Context())
		require.NoError(t, err)

		_, err = io.ReadAll(rc)
		require.NoError(t, err)

		err = rc.Close()
		require.ErrorIs(t, err, audio.ErrTranscode)
		assert.Contains(t, err.Error(), "no audio stream")
		assert.False(t, audio.IsBenign(err))
	})

	t.Run("early close is benign", func(t *testing.T) {
		t.Parallel()

		tr := &audio.Transcoder{FFmpeg: fakeFFmpeg(t, "exec sleep 30"), Input: "in.mp4"}

		rc, err := tr.Open(t.Context())
		require.NoError(t, err)

		err = rc.Close()
		require.ErrorIs(t, err, audio.ErrStreamClosed)
		assert.True(t, audio.IsBenign(err))

		// Idempotent.
		require.ErrorIs(t, rc.Close(), audio.ErrStreamClosed)
	})
}

func TestMP3FileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := (&audio.MP3File{Path: filepath.Join(dir, "missing.mp3")}).Open(t.Context())
	require.ErrorIs(t, err, os.ErrNotExist)

	garbage := filepath.Join(dir, "garbage.mp3")
	require.NoError(t, os.WriteFile(garbage, []byte("not an mp3"), 0o600))

	_, err = (&audio.MP3File{Path: garbage}).Open(t.Context())
	require.ErrorIs(t, err, audio.ErrUnsupportedFormat)
}
