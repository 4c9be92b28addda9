package core

import (
	"context"
	"errors"
	"time"

	"github.com/comalice/a11yx/internal/primitives"
)

var (
	ErrQueueFull    = errors.New("event queue full (backpressure)")
	ErrNotRunning   = errors.New("coordinator stopped")
	ErrHandlerPanic = errors.New("handler panic")
	ErrBadPayload   = errors.New("unexpected event payload")
	ErrInvalidEvent = errors.New("invalid event")
	ErrNotFound     = errors.New("snapshot not found")
)

// Handler computes the next state for one event. The returned state replaces the
// current one in full; on error nothing is published.
type Handler func(ctx context.Context, cur primitives.State, evt primitives.Event) (primitives.State, error)

// Middleware decorates a Handler.
type Middleware func(eventType string, next Handler) Handler

// Persister saves and loads store snapshots.
// Load wraps ErrNotFound when no snapshot exists for storeID.
type Persister interface {
	Save(ctx context.Context, snapshot primitives.Snapshot) error
	Load(ctx context.Context, storeID string) (primitives.Snapshot, error)
}

// Transition describes one publish.
type Transition struct {
	StoreID     string    `json:"storeID" yaml:"storeID"`
	Event       string    `json:"event" yaml:"event"`
	FromVersion uint64    `json:"fromVersion" yaml:"fromVersion"`
	ToVersion   uint64    `json:"toVersion" yaml:"toVersion"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
}

// Publisher receives every processed event together with the resulting state.
type Publisher interface {
	Publish(ctx context.Context, event primitives.Event, snapshot primitives.Snapshot, t Transition) error
	Close() error
}

// EventSource feeds external events into the coordinator.
type EventSource interface {
	Events() <-chan primitives.Event
}
