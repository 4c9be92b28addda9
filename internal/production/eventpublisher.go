package production

import (
	"context"
	"sync"

	"github.com/comalice/a11yx/internal/core"
	"github.com/comalice/a11yx/internal/primitives"
)

// PublishedEvent bundles an event with the snapshot it produced.
type PublishedEvent struct {
	Event      primitives.Event
	Snapshot   primitives.Snapshot
	Transition core.Transition
}

// ChannelPublisher forwards transitions to a Go channel.
// Non-blocking publish with drop on backpressure.
type ChannelPublisher struct {
	mu     sync.Mutex
	ch     chan<- PublishedEvent
	closed bool
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- PublishedEvent) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

func (p *ChannelPublisher) Publish(ctx context.Context, event primitives.Event, snapshot primitives.Snapshot, t core.Transition) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	select {
	case p.ch <- PublishedEvent{Event: event, Snapshot: snapshot.Clone(), Transition: t}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil // Non-blocking drop
	}
}

// Close closes the output channel. Later publishes are dropped.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}

// MultiPublisher fans a transition out to several publishers.
type MultiPublisher []core.Publisher

func (m MultiPublisher) Publish(ctx context.Context, event primitives.Event, snapshot primitives.Snapshot, t core.Transition) error {
	var firstErr error
	for _, p := range m {
		if err := p.Publish(ctx, event, snapshot, t); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m MultiPublisher) Close() error {
	var firstErr error
	for _, p := range m {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
