package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// otoPollInterval is how often [OtoDevice.Play] checks whether the player
// has drained its input.
const otoPollInterval = 20 * time.Millisecond

var (
	// oto allows a single context per process.
	otoOnce    sync.Once
	otoContext *oto.Context
	otoErr     error
)

// OtoDevice plays PCM through [github.com/ebitengine/oto/v3].
//
// Create instances with [NewOtoDevice].
type OtoDevice struct {
	ctx *oto.Context
}

// NewOtoDevice opens the default output device and waits until it is
// ready.
func NewOtoDevice() (*OtoDevice, error) {
	otoOnce.Do(func() {
		c, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: Channels,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			otoErr = fmt.Errorf("%w: cannot create oto context: %w", ErrDevice, err)

			return
		}

		<-ready

		otoContext = c
	})

	if otoErr != nil {
		return nil, otoErr
	}

	err := otoContext.Resume()
	if err != nil {
		return nil, fmt.Errorf("%w: resume oto context: %w", ErrDevice, err)
	}

	return &OtoDevice{ctx: otoContext}, nil
}

// Play streams r to the device until r is exhausted or ctx is done.
func (d *OtoDevice) Play(ctx context.Context, r io.Reader) error {
	player := d.ctx.NewPlayer(r)
	defer func() {
		//nolint:errcheck // Player errors are reported through Err.
		player.Close()
	}()

	player.Play()

	ticker := time.NewTicker(otoPollInterval)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()

			return ctx.Err()
		case <-ticker.C:
		}
	}

	err := player.Err()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDevice, err)
	}

	return nil
}

// Close suspends the shared oto context.
func (d *OtoDevice) Close() error {
	err := d.ctx.Suspend()
	if err != nil {
		return fmt.Errorf("%w: suspend oto context: %w", ErrDevice, err)
	}

	return nil
}
