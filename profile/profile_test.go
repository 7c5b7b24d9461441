package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/asciiplay/profile"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()

	assert.Empty(t, cfg.CPU)
	assert.Empty(t, cfg.Heap)
	assert.Empty(t, cfg.Trace)
	assert.Zero(t, cfg.BlockProfileRate)
}

func TestRegisterFlags(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	cfg.RegisterFlags(flags)

	err := flags.Parse([]string{
		"--cpu-profile=cpu.prof",
		"--heap-profile=heap.prof",
		"--goroutine-profile=goroutine.prof",
		"--block-profile=block.prof",
		"--mutex-profile=mutex.prof",
		"--trace=play.trace",
		"--block-profile-rate=100",
	})
	require.NoError(t, err)

	assert.Equal(t, "cpu.prof", cfg.CPU)
	assert.Equal(t, "heap.prof", cfg.Heap)
	assert.Equal(t, "goroutine.prof", cfg.Goroutine)
	assert.Equal(t, "block.prof", cfg.Block)
	assert.Equal(t, "mutex.prof", cfg.Mutex)
	assert.Equal(t, "play.trace", cfg.Trace)
	assert.Equal(t, 100, cfg.BlockProfileRate)
	assert.Equal(t, 1, cfg.MutexProfileFraction)
}

func TestRegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())
	require.NoError(t, cfg.RegisterCompletions(cmd))

	tcs := map[string]struct {
		flag string
	}{
		"block rate":     {flag: "block-profile-rate"},
		"mutex fraction": {flag: "mutex-profile-fraction"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn, ok := cmd.GetFlagCompletionFunc(tc.flag)
			require.True(t, ok)

			values, directive := fn(cmd, nil, "")
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
			assert.Nil(t, values)
		})
	}
}

func TestProfiler(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg := profile.NewConfig()
	cfg.CPU = filepath.Join(dir, "cpu.prof")
	cfg.Trace = filepath.Join(dir, "play.trace")
	cfg.Heap = filepath.Join(dir, "heap.prof")
	cfg.Goroutine = filepath.Join(dir, "goroutine.prof")

	p := cfg.NewProfiler(nil)
	require.NoError(t, p.Start())
	require.ErrorIs(t, p.Start(), profile.ErrStarted)
	require.NoError(t, p.Stop())

	for _, path := range []string{cfg.CPU, cfg.Trace, cfg.Heap, cfg.Goroutine} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), path)
	}

	// Stopping again writes nothing and does not fail.
	require.NoError(t, os.Remove(cfg.Heap))
	require.NoError(t, p.Stop())
	assert.NoFileExists(t, cfg.Heap)
}

func TestProfilerCreateError(t *testing.T) {
	t.Parallel()

	cfg := profile.NewConfig()
	cfg.Heap = filepath.Join(t.TempDir(), "missing", "heap.prof")

	p := cfg.NewProfiler(nil)
	require.NoError(t, p.Start())
	require.ErrorIs(t, p.Stop(), profile.ErrProfile)
}

func TestProfilerDisabled(t *testing.T) {
	t.Parallel()

	p := profile.NewConfig().NewProfiler(nil)
	require.NoError(t, p.Stop())
	require.NoError(t, p.Start())
	require.NoError(t, p.Stop())
}
