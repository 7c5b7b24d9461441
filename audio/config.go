package audio

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Backend names an output [Device] implementation.
type Backend string

// Supported backends.
const (
	BackendOto       Backend = "oto"
	BackendPortAudio Backend = "portaudio"
	BackendNone      Backend = "none"
)

// Backends returns every supported backend name.
func Backends() []string {
	return []string{string(BackendOto), string(BackendPortAudio), string(BackendNone)}
}

// Flags holds CLI flag names for audio configuration.
type Flags struct {
	Backend         string
	Source          string
	FFmpeg          string
	FramesPerBuffer string
}

// Config holds CLI flag values for audio configuration.
//
// Create instances with [NewConfig] and build a [Pipeline] with
// [Config.NewPipeline].
type Config struct {
	Flags           Flags
	Backend         string
	Source          string
	FFmpeg          string
	FramesPerBuffer int
}

// NewConfig returns a [Config] with default flag names.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			Backend:         "audio-backend",
			Source:          "audio",
			FFmpeg:          "ffmpeg",
			FramesPerBuffer: "frames-per-buffer",
		},
	}
}

// RegisterFlags adds audio flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Backend, c.Flags.Backend, string(BackendOto),
		fmt.Sprintf("audio output backend, one of: %s", Backends()))
	flags.StringVar(&c.Source, c.Flags.Source, "",
		"audio source (video or .mp3 file); defaults to the video argument")
	flags.StringVar(&c.FFmpeg, c.Flags.FFmpeg, "ffmpeg",
		"ffmpeg binary used to extract audio")
	flags.IntVar(&c.FramesPerBuffer, c.Flags.FramesPerBuffer, DefaultFramesPerBuffer,
		"portaudio buffer size in sample frames")
}

// RegisterCompletions registers shell completions for audio flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Backend,
		cobra.FixedCompletions(Backends(), cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Backend, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.FramesPerBuffer,
		cobra.NoFileCompletions)
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.FramesPerBuffer, err)
	}

	return nil
}

// backend parses the configured backend name.
func (c *Config) backend() (Backend, error) {
	b := Backend(strings.ToLower(c.Backend))
	switch b {
	case BackendOto, BackendPortAudio, BackendNone:
		return b, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
}

// Validate checks the configured values without opening any device.
func (c *Config) Validate() error {
	_, err := c.backend()
	if err != nil {
		return err
	}

	if c.FramesPerBuffer < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidFramesPerBuffer, c.FramesPerBuffer)
	}

	return nil
}

// Enabled reports whether audio output is requested.
func (c *Config) Enabled() bool {
	b, err := c.backend()

	return err == nil && b != BackendNone
}

// NewSource returns the [Source] for video, honoring the source override.
func (c *Config) NewSource(video string) Source {
	path := video
	if c.Source != "" {
		path = c.Source
	}

	return SourceFor(path, c.FFmpeg)
}

// NewDevice opens the configured output device.
func (c *Config) NewDevice() (Device, error) {
	b, err := c.backend()
	if err != nil {
		return nil, err
	}

	switch b {
	case BackendOto:
		dev, err := NewOtoDevice()
		if err != nil {
			return nil, err
		}

		return dev, nil

	case BackendPortAudio:
		dev, err := NewPortAudioDevice(c.FramesPerBuffer)
		if err != nil {
			return nil, err
		}

		return dev, nil
	}

	return nil, fmt.Errorf("%w: backend %q has no device", ErrUnknownBackend, b)
}

// NewPipeline opens the configured device and returns a [Pipeline] playing
// the audio of video.
func (c *Config) NewPipeline(video string, logger *slog.Logger) (*Pipeline, error) {
	dev, err := c.NewDevice()
	if err != nil {
		return nil, err
	}

	return NewPipeline(c.NewSource(video), dev, logger), nil
}
