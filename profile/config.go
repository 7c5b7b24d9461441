package profile

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for profiling configuration.
type Flags struct {
	CPU                  string
	Heap                 string
	Goroutine            string
	Block                string
	Mutex                string
	Trace                string
	BlockProfileRate     string
	MutexProfileFraction string
}

// Config holds profiling output paths and sampling rates. Empty paths
// disable the corresponding profile.
//
// Create instances with [NewConfig] and start a session with
// [Config.NewProfiler].
type Config struct {
	Flags                Flags
	CPU                  string
	Heap                 string
	Goroutine            string
	Block                string
	Mutex                string
	Trace                string
	BlockProfileRate     int
	MutexProfileFraction int
}

// NewConfig returns a [Config] with default flag names and every profile
// disabled.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			CPU:                  "cpu-profile",
			Heap:                 "heap-profile",
			Goroutine:            "goroutine-profile",
			Block:                "block-profile",
			Mutex:                "mutex-profile",
			Trace:                "trace",
			BlockProfileRate:     "block-profile-rate",
			MutexProfileFraction: "mutex-profile-fraction",
		},
	}
}

// RegisterFlags adds profiling flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.CPU, c.Flags.CPU, "", "write a CPU profile of the session to file")
	flags.StringVar(&c.Heap, c.Flags.Heap, "", "write a heap profile to file when the session ends")
	flags.StringVar(&c.Goroutine, c.Flags.Goroutine, "", "write a goroutine profile to file when the session ends")
	flags.StringVar(&c.Block, c.Flags.Block, "", "write a block profile to file when the session ends")
	flags.StringVar(&c.Mutex, c.Flags.Mutex, "", "write a mutex profile to file when the session ends")
	flags.StringVar(&c.Trace, c.Flags.Trace, "", "write an execution trace of the session to file")
	flags.IntVar(&c.BlockProfileRate, c.Flags.BlockProfileRate, 1, "block profile rate (nanoseconds)")
	flags.IntVar(&c.MutexProfileFraction, c.Flags.MutexProfileFraction, 1, "mutex profile fraction (1/N sampling)")
}

// RegisterCompletions disables file completion for the rate flags on cmd.
// Path flags keep the default file completion.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	for _, flag := range []string{c.Flags.BlockProfileRate, c.Flags.MutexProfileFraction} {
		err := cmd.RegisterFlagCompletionFunc(flag, cobra.NoFileCompletions)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", flag, err)
		}
	}

	return nil
}

// NewProfiler creates a [Profiler] for this configuration. A nil logger
// discards log output.
func (c *Config) NewProfiler(logger *slog.Logger) *Profiler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Profiler{
		cfg:    *c,
		logger: logger,
	}
}
