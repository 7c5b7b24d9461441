package player_test

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/asciiplay/player"
)

func TestConfigFlags(t *testing.T) {
	t.Parallel()

	cfg := player.NewConfig()
	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())
	require.NoError(t, cfg.RegisterCompletions(cmd))

	require.NoError(t, cmd.Flags().Parse(nil))
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, 2070*time.Millisecond, cfg.StartupDelay)
	assert.Equal(t, 750*time.Millisecond, cfg.Skew)
	assert.False(t, cfg.TUI)

	require.NoError(t, cmd.Flags().Parse([]string{
		"--fps=60",
		"--startup-delay=0s",
		"--skew=-100ms",
		"--tui",
	}))
	assert.Equal(t, 60, cfg.FPS)
	assert.Zero(t, cfg.StartupDelay)
	assert.Equal(t, -100*time.Millisecond, cfg.Skew)
	assert.True(t, cfg.TUI)

	s := player.New(abStore(), cfg.Options()...)
	assert.Equal(t, time.Second/60, s.TickRate())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		cfg     player.Config
		wantErr bool
	}{
		"defaults": {
			cfg: player.Config{FPS: 30, StartupDelay: player.DefaultStartupDelay},
		},
		"zero fps": {
			cfg:     player.Config{FPS: 0},
			wantErr: true,
		},
		"negative delay": {
			cfg:     player.Config{FPS: 30, StartupDelay: -time.Second},
			wantErr: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := tc.cfg.Validate()
			if tc.wantErr {
				require.ErrorIs(t, err, player.ErrInvalidOption)

				return
			}

			require.NoError(t, err)
		})
	}

	s := player.New(abStore(), (&player.Config{FPS: 0}).Options()...)
	assert.Equal(t, player.DefaultTickRate, s.TickRate())
}
