package audio

import (
	"context"
	"log/slog"
	"sync"
)

// Pipeline plays one [Source] on one [Device] in the background.
//
// Create instances with [NewPipeline].
type Pipeline struct {
	source  Source
	device  Device
	logger  *slog.Logger
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	stopped bool
}

// NewPipeline creates a [Pipeline]. A nil logger uses [slog.Default].
func NewPipeline(source Source, device Device, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		source: source,
		device: device,
		logger: logger,
	}
}

// Start opens the source and begins playback in a new goroutine. It returns
// immediately; later failures are logged, never returned.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil || p.stopped {
		return ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx)

	return nil
}

func (p *Pipeline) run(ctx context.Context) {
	defer close(p.done)

	stream, err := p.source.Open(ctx)
	if err != nil {
		p.report("open audio source", err)

		return
	}

	p.logger.Debug("audio playback started")

	p.report("play audio", p.device.Play(ctx, stream))
	p.report("close audio source", stream.Close())

	p.logger.Debug("audio playback finished")
}

// report logs err unless it is nil. Benign shutdown errors are only logged
// at debug level.
func (p *Pipeline) report(msg string, err error) {
	switch {
	case err == nil:
	case IsBenign(err):
		p.logger.Debug(msg, slog.Any("error", err))
	default:
		p.logger.Warn(msg, slog.Any("error", err))
	}
}

// Stop cancels playback, waits for the background goroutine, and closes the
// device. It is safe to call without [Pipeline.Start] and more than once.
func (p *Pipeline) Stop() error {
	p.mu.Lock()

	if p.stopped {
		p.mu.Unlock()

		return nil
	}

	p.stopped = true
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	err := p.device.Close()
	if err != nil && !IsBenign(err) {
		return err
	}

	return nil
}
