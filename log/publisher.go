package log

import (
	"bytes"
	"sync"
)

const defaultBufferSize = 16

// Publisher is an [io.Writer] that fans log entries out to subscribers and
// remembers the most recent entry.
//
// Writes never block: when a subscriber falls behind, its oldest pending
// entry is dropped. Safe for concurrent use.
//
// Create instances with [NewPublisher].
type Publisher struct {
	last    []byte
	subs    map[*Subscription]struct{}
	bufSize int
	mu      sync.Mutex
	closed  bool
}

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithBufferSize sets the channel buffer size for new subscriptions. Values
// less than 1 are clamped to 1.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		p.bufSize = max(n, 1)
	}
}

// NewPublisher creates a [Publisher]. The default buffer size is 16.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		subs:    make(map[*Subscription]struct{}),
		bufSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Write copies b, trims its trailing newline, and delivers it to every
// subscriber. It always returns len(b), nil.
func (p *Publisher) Write(b []byte) (int, error) {
	entry := bytes.TrimRight(bytes.Clone(b), "\n")

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return len(b), nil
	}

	p.last = entry

	for sub := range p.subs {
		select {
		case sub.ch <- entry:
		default:
			// Drop oldest.
			select {
			case <-sub.ch:
			default:
			}

			sub.ch <- entry
		}
	}

	return len(b), nil
}

// Last returns the most recently written entry, or nil.
func (p *Publisher) Last() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.last
}

// Subscribe registers a new [Subscription]. On a closed Publisher the
// returned subscription's channel is already closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		ch:  make(chan []byte, p.bufSize),
		pub: p,
	}

	if p.closed {
		close(sub.ch)

		return sub
	}

	p.subs[sub] = struct{}{}

	return sub
}

// Close closes every subscription channel. Later writes are discarded.
// Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true

	for sub := range p.subs {
		close(sub.ch)
		delete(p.subs, sub)
	}

	return nil
}

// Subscription receives entries from a [Publisher].
type Subscription struct {
	ch  chan []byte
	pub *Publisher
}

// Last returns the most recent entry written to the Publisher, including
// entries written before this subscription was created.
func (s *Subscription) Last() []byte {
	return s.pub.Last()
}

// C returns the channel delivering entries. It is closed when the
// subscription or its Publisher is closed.
func (s *Subscription) C() <-chan []byte {
	return s.ch
}

// Close unregisters the subscription and closes its channel. Idempotent.
func (s *Subscription) Close() {
	s.pub.mu.Lock()
	defer s.pub.mu.Unlock()

	if _, ok := s.pub.subs[s]; !ok {
		return
	}

	delete(s.pub.subs, s)
	close(s.ch)
}
