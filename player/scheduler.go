package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.jacobcolvin.com/asciiplay/frames"
)

// Playback timing defaults.
const (
	DefaultTickRate     = time.Second / 30
	DefaultStartupDelay = 2070 * time.Millisecond
	DefaultSkew         = 750 * time.Millisecond
)

// ErrAlreadyStarted is returned when a [Scheduler] is started more than
// once.
var ErrAlreadyStarted = errors.New("playback already started")

// AudioPlayer is an audio stream started alongside the frames.
// [*audio.Pipeline] implements it.
type AudioPlayer interface {
	Start(ctx context.Context) error
	Stop() error
}

// TickerFunc returns a channel delivering ticks every d and a function that
// stops it.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

// TickResult describes the outcome of one tick.
type TickResult struct {
	Frame   frames.Frame
	Elapsed time.Duration
	// Index is the active frame's index, or -1 when no frame is active.
	Index int
	// Rendered is true when the tick drew a frame.
	Rendered bool
	State    State
}

// Scheduler plays frames from a [frames.Store] at a fixed tick rate.
//
// Create instances with [New].
type Scheduler struct {
	store        *frames.Store
	audio        AudioPlayer
	renderer     Renderer
	logger       *slog.Logger
	now          func() time.Time
	ticker       TickerFunc
	start        time.Time
	tickRate     time.Duration
	startupDelay time.Duration
	skew         time.Duration
	stopAudio    sync.Once
	mu           sync.Mutex
	state        atomic.Int32
	clockSet     bool
}

// Option configures a [Scheduler].
type Option func(*Scheduler)

// WithAudio sets the audio stream started with playback.
func WithAudio(a AudioPlayer) Option {
	return func(s *Scheduler) {
		s.audio = a
	}
}

// WithRenderer sets the frame renderer. Defaults to a [Terminal] on
// standard output.
func WithRenderer(r Renderer) Option {
	return func(s *Scheduler) {
		s.renderer = r
	}
}

// WithTickRate sets the interval between ticks. Non-positive values are
// ignored.
func WithTickRate(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.tickRate = d
		}
	}
}

// WithStartupDelay sets how long to wait after starting audio before the
// playback clock starts.
func WithStartupDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		s.startupDelay = d
	}
}

// WithSkew sets the offset subtracted from the elapsed time on every tick.
func WithSkew(d time.Duration) Option {
	return func(s *Scheduler) {
		s.skew = d
	}
}

// WithClock sets the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
	}
}

// WithTicker sets the tick source used by [Scheduler.Run].
func WithTicker(f TickerFunc) Option {
	return func(s *Scheduler) {
		s.ticker = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// New creates an idle [Scheduler] for store.
func New(store *frames.Store, opts ...Option) *Scheduler {
	s := &Scheduler{
		store:        store,
		logger:       slog.Default(),
		now:          time.Now,
		ticker:       newTicker,
		tickRate:     DefaultTickRate,
		startupDelay: DefaultStartupDelay,
		skew:         DefaultSkew,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.renderer == nil {
		s.renderer = NewTerminal(os.Stdout)
	}

	return s
}

func newTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)

	return t.C, t.Stop
}

// State returns the current playback state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// TickRate returns the interval between ticks.
func (s *Scheduler) TickRate() time.Duration {
	return s.tickRate
}

// Start moves an idle scheduler to [StatePlaying]: it starts the audio,
// waits the startup delay, and starts the playback clock. Audio failures are
// logged and do not stop playback.
//
// Calling Start on a scheduler that is not idle does nothing and returns
// [ErrAlreadyStarted]. If ctx is done during the startup delay the scheduler
// is cancelled and ctx's error is returned.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StatePlaying)) {
		return fmt.Errorf("%w: %s", ErrAlreadyStarted, s.State())
	}

	if s.audio != nil {
		err := s.audio.Start(ctx)
		if err != nil {
			s.logger.Warn("start audio", slog.Any("error", err))
		}
	}

	if s.startupDelay > 0 {
		timer := time.NewTimer(s.startupDelay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			s.Cancel()

			return ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	s.start = s.now()
	s.clockSet = true
	s.mu.Unlock()

	s.logger.Info("playback started",
		slog.Int("frames", s.store.Len()),
		slog.Duration("duration", s.store.Duration()),
		slog.Duration("skew", s.skew),
	)

	return nil
}

// Tick evaluates the current wall-clock time. See [Scheduler.TickAt].
func (s *Scheduler) Tick() TickResult {
	s.mu.Lock()
	elapsed := s.now().Sub(s.start) - s.skew
	s.mu.Unlock()

	return s.TickAt(elapsed)
}

// TickAt evaluates one tick at the given elapsed playback time.
//
// When a frame contains elapsed it is rendered, even if the same frame was
// drawn on the previous tick, so anything else written to the terminal is
// overwritten within one tick. When no frame contains elapsed and elapsed has reached the end of
// the last frame, playback completes. Otherwise, before the first frame or
// in a gap, nothing is drawn and the previous frame stays on screen. Ticks
// on a scheduler that is not playing, or whose clock has not started, do
// nothing.
func (s *Scheduler) TickAt(elapsed time.Duration) TickResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := TickResult{Elapsed: elapsed, Index: -1}

	if s.State() != StatePlaying || !s.clockSet {
		res.State = s.State()

		return res
	}

	i, ok := s.store.Lookup(elapsed)

	switch {
	case ok:
		res.Index = i
		res.Frame = s.store.At(i)

		res.Rendered = true

		err := s.renderer.Render(res.Frame)
		if err != nil {
			s.logger.Warn("render frame",
				slog.Int("seq", res.Frame.Seq),
				slog.Any("error", err),
			)
		}

	case elapsed >= s.store.Duration():
		if s.finish(StateCompleted) {
			s.logger.Info("playback completed", slog.Duration("elapsed", elapsed))
		}
	}

	res.State = s.State()

	return res
}

// Cancel moves an idle or playing scheduler to [StateCancelled] and stops
// the audio. It does nothing once playback has ended.
func (s *Scheduler) Cancel() {
	if s.state.CompareAndSwap(int32(StateIdle), int32(StateCancelled)) ||
		s.finish(StateCancelled) {
		s.stop()
		s.logger.Info("playback cancelled")
	}
}

// finish moves a playing scheduler to the terminal state to and reports
// whether this call made the transition.
func (s *Scheduler) finish(to State) bool {
	if !s.state.CompareAndSwap(int32(StatePlaying), int32(to)) {
		return false
	}

	s.stop()

	return true
}

// stop stops the audio at most once.
func (s *Scheduler) stop() {
	s.stopAudio.Do(func() {
		if s.audio == nil {
			return
		}

		err := s.audio.Stop()
		if err != nil {
			s.logger.Warn("stop audio", slog.Any("error", err))
		}
	})
}

// Run starts playback and ticks until it completes or ctx is done, then
// returns the terminal state. A scheduler that was already started returns
// its current state and [ErrAlreadyStarted].
func (s *Scheduler) Run(ctx context.Context) (State, error) {
	err := s.Start(ctx)
	if errors.Is(err, ErrAlreadyStarted) {
		return s.State(), err
	}

	if err != nil {
		// Cancelled during the startup delay.
		return s.State(), nil
	}

	ticks, stopTicker := s.ticker(s.tickRate)
	defer stopTicker()

	for {
		select {
		case <-ctx.Done():
			s.Cancel()

			return s.State(), nil

		case <-ticks:
			if ctx.Err() != nil {
				s.Cancel()

				return s.State(), nil
			}

			res := s.Tick()
			if res.State.Done() {
				return res.State, nil
			}
		}
	}
}
