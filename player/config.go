package player

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ErrInvalidOption indicates an invalid playback setting.
var ErrInvalidOption = errors.New("invalid option")

// Flags holds CLI flag names for playback configuration.
type Flags struct {
	FPS          string
	StartupDelay string
	Skew         string
	TUI          string
}

// Config holds CLI flag values for playback configuration.
//
// Create instances with [NewConfig] and turn them into [Scheduler] options
// with [Config.Options].
type Config struct {
	Flags        Flags
	FPS          int
	StartupDelay time.Duration
	Skew         time.Duration
	TUI          bool
}

// NewConfig returns a [Config] with default flag names.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			FPS:          "fps",
			StartupDelay: "startup-delay",
			Skew:         "skew",
			TUI:          "tui",
		},
	}
}

// RegisterFlags adds playback flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.IntVar(&c.FPS, c.Flags.FPS, int(time.Second/DefaultTickRate),
		"scheduler ticks per second")
	flags.DurationVar(&c.StartupDelay, c.Flags.StartupDelay, DefaultStartupDelay,
		"wait after starting audio before the playback clock starts")
	flags.DurationVar(&c.Skew, c.Flags.Skew, DefaultSkew,
		"offset subtracted from elapsed time to compensate for audio latency")
	flags.BoolVar(&c.TUI, c.Flags.TUI, false,
		"play inside a full-screen terminal UI with a log footer")
}

// RegisterCompletions disables file completion for playback flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	for _, flag := range []string{c.Flags.FPS, c.Flags.StartupDelay, c.Flags.Skew} {
		err := cmd.RegisterFlagCompletionFunc(flag, cobra.NoFileCompletions)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// Validate checks the configured values.
func (c *Config) Validate() error {
	if c.FPS < 1 {
		return fmt.Errorf("%w: %s must be at least 1, got %d", ErrInvalidOption, c.Flags.FPS, c.FPS)
	}

	if c.StartupDelay < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidOption, c.Flags.StartupDelay)
	}

	return nil
}

// Options returns the [Scheduler] options for this configuration. A
// non-positive FPS keeps the default tick rate.
func (c *Config) Options() []Option {
	rate := DefaultTickRate
	if c.FPS > 0 {
		rate = time.Second / time.Duration(c.FPS)
	}

	return []Option{
		WithTickRate(rate),
		WithStartupDelay(c.StartupDelay),
		WithSkew(c.Skew),
	}
}
