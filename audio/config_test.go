package audio_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/asciiplay/audio"
)

func TestConfigFlags(t *testing.T) {
	t.Parallel()

	cfg := audio.NewConfig()
	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())
	require.NoError(t, cfg.RegisterCompletions(cmd))

	require.NoError(t, cmd.Flags().Parse(nil))
	assert.Equal(t, "oto", cfg.Backend)
	assert.Equal(t, "ffmpeg", cfg.FFmpeg)
	assert.Equal(t, audio.DefaultFramesPerBuffer, cfg.FramesPerBuffer)
	assert.Empty(t, cfg.Source)

	require.NoError(t, cmd.Flags().Parse([]string{
		"--audio-backend=portaudio",
		"--audio=track.mp3",
		"--ffmpeg=/opt/ffmpeg",
		"--frames-per-buffer=512",
	}))
	assert.Equal(t, "portaudio", cfg.Backend)
	assert.Equal(t, "track.mp3", cfg.Source)
	assert.Equal(t, "/opt/ffmpeg", cfg.FFmpeg)
	assert.Equal(t, 512, cfg.FramesPerBuffer)

	fn, ok := cmd.GetFlagCompletionFunc("audio-backend")
	require.True(t, ok)

	values, _ := fn(cmd, nil, "")
	assert.Equal(t, audio.Backends(), values)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cfg         audio.Config
		wantErr     error
		wantEnabled bool
	}{
		"oto": {
			cfg:         audio.Config{Backend: "oto", FramesPerBuffer: 1024},
			wantEnabled: true,
		},
		"portaudio case insensitive": {
			cfg:         audio.Config{Backend: "PortAudio", FramesPerBuffer: 1024},
			wantEnabled: true,
		},
		"none": {
			cfg:         audio.Config{Backend: "none", FramesPerBuffer: 1024},
			wantEnabled: false,
		},
		"unknown backend": {
			cfg:     audio.Config{Backend: "alsa", FramesPerBuffer: 1024},
			wantErr: audio.ErrUnknownBackend,
		},
		"zero buffer": {
			cfg:         audio.Config{Backend: "oto", FramesPerBuffer: 0},
			wantErr:     audio.ErrInvalidFramesPerBuffer,
			wantEnabled: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.cfg.Validate()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.wantEnabled, tc.cfg.Enabled())
		})
	}
}

func TestConfigNewSource(t *testing.T) {
	t.Parallel()

	cfg := audio.Config{FFmpeg: "ffmpeg"}
	assert.Equal(t, &audio.Transcoder{FFmpeg: "ffmpeg", Input: "clip.mp4"}, cfg.NewSource("clip.mp4"))

	cfg.Source = "track.mp3"
	assert.Equal(t, &audio.MP3File{Path: "track.mp3"}, cfg.NewSource("clip.mp4"))

	_, err := (&audio.Config{Backend: "none"}).NewDevice()
	require.ErrorIs(t, err, audio.ErrUnknownBackend)
}
