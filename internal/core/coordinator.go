// Package core provides the request coordinator and the accessibility state store.
//
// The Coordinator is an actor: a single goroutine takes events from a buffered
// queue in arrival order and runs each handler to completion (read current state,
// compute, publish whole new state) before taking the next one.
package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/comalice/a11yx/internal/primitives"
)

const defaultQueueSize = 1000

// errorBufferSize bounds Errors(); further errors are logged and dropped.
const errorBufferSize = 64

// Option applies configuration to Coordinator via functional options pattern.
type Option func(*Coordinator)

type envelope struct {
	event primitives.Event
	done  chan error // nil for fire-and-forget sends
}

// Coordinator serializes state transitions of one Store.
// Thread-safe for concurrent Send() from multiple goroutines.
type Coordinator struct {
	store      *Store
	mu         sync.RWMutex
	handlers   map[string]Handler
	middleware []Middleware
	queue      chan envelope
	done       chan struct{}
	stopped    chan struct{}
	running    bool
	errs       chan error
	logger     *slog.Logger
	// Pluggable components (nil = disabled)
	persister   Persister
	publisher   Publisher
	eventSource EventSource
}

// NewCoordinator creates a coordinator for store with the default handlers for
// INIT_REQUEST, NAVIGATE_REQUEST, STATUS_UPDATE and FOCUS_CHANGED registered.
// Handlers passed through WithHandler take precedence.
func NewCoordinator(store *Store, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:    store,
		handlers: make(map[string]Handler),
		queue:    make(chan envelope, defaultQueueSize),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		errs:     make(chan error, errorBufferSize),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "coordinator", "store_id", store.ID())

	defaults := map[string]Handler{
		primitives.EventInitRequest:     InitHandler(c.logger),
		primitives.EventNavigateRequest: NavigateHandler,
		primitives.EventStatusUpdate:    StatusHandler,
		primitives.EventFocusChanged:    FocusHandler,
	}
	for eventType, h := range defaults {
		if _, ok := c.handlers[eventType]; !ok {
			c.handlers[eventType] = h
		}
	}

	return c
}

// Store returns the store owned by this coordinator.
func (c *Coordinator) Store() *Store {
	return c.store
}

// Handle registers or replaces the handler for eventType.
func (c *Coordinator) Handle(eventType string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[eventType] = h
}

// Errors returns the channel on which handler failures are reported.
func (c *Coordinator) Errors() <-chan error {
	return c.errs
}

// Restore loads the persisted snapshot, if any, into the store.
// Call before Start. A missing snapshot is not an error.
func (c *Coordinator) Restore(ctx context.Context) error {
	if c.persister == nil {
		return nil
	}
	snap, err := c.persister.Load(ctx, c.store.ID())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return fmt.Errorf("restore %q: %w", c.store.ID(), err)
	}
	c.store.restore(snap)
	c.logger.Info("state restored", "version", snap.Version)
	return nil
}

// Start launches the event processing goroutine.
// Idempotent: safe to call multiple times (no-op after first).
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return ErrNotRunning
	default:
	}
	if c.running {
		return nil
	}
	c.running = true

	go c.interpret(ctx)

	if c.eventSource != nil {
		go c.pump(ctx)
	}
	return nil
}

// Stop signals shutdown and waits for the in-flight handler to finish.
// Events still queued are dropped. Safe to call multiple times.
func (c *Coordinator) Stop() error {
	c.mu.Lock()
	select {
	case <-c.done:
		c.mu.Unlock()
		return nil
	default:
	}
	close(c.done)
	running := c.running
	c.mu.Unlock()

	if running {
		<-c.stopped
	}
	return nil
}

// Send enqueues an event for asynchronous processing.
// Returns ErrQueueFull on backpressure and ErrNotRunning after Stop.
func (c *Coordinator) Send(ctx context.Context, evt primitives.Event) error {
	return c.enqueue(ctx, envelope{event: evt})
}

// SendSync enqueues an event and waits until its handler has run, returning the
// handler's error. Unknown event types complete with nil.
func (c *Coordinator) SendSync(ctx context.Context, evt primitives.Event) error {
	env := envelope{event: evt, done: make(chan error, 1)}
	if err := c.enqueue(ctx, env); err != nil {
		return err
	}
	select {
	case err := <-env.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-c.stopped:
		select {
		case err := <-env.done:
			return err
		default:
			return ErrNotRunning
		}
	}
}

func (c *Coordinator) enqueue(ctx context.Context, env envelope) error {
	select {
	case <-c.done:
		return ErrNotRunning
	default:
	}
	select {
	case c.queue <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

// interpret is the private event loop goroutine.
func (c *Coordinator) interpret(ctx context.Context) {
	defer close(c.stopped)
	for {
		select {
		case env := <-c.queue:
			err := c.process(ctx, env.event)
			if err != nil {
				c.report(env.event, err)
			}
			if env.done != nil {
				env.done <- err
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// pump forwards events from the configured EventSource.
func (c *Coordinator) pump(ctx context.Context) {
	events := c.eventSource.Events()
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			if err := c.Send(ctx, evt); err != nil {
				c.logger.Warn("dropped event from source", "type", evt.Type, "error", err)
			}
		case <-c.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// process runs one handler: read, compute, publish.
func (c *Coordinator) process(ctx context.Context, evt primitives.Event) (err error) {
	h, ok := c.handler(evt.Type)
	if !ok {
		c.logger.Debug("no handler for event, ignoring", "type", evt.Type)
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrHandlerPanic, evt.Type, r)
		}
	}()

	cur := c.store.Select()
	next, err := h(ctx, cur.State, evt)
	if err != nil {
		return fmt.Errorf("handle %s: %w", evt.Type, err)
	}

	snap := c.store.put(next)
	c.afterPublish(ctx, evt, cur.Version, snap)
	return nil
}

func (c *Coordinator) handler(eventType string) (Handler, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h, ok := c.handlers[eventType]
	if !ok {
		return nil, false
	}
	for i := len(c.middleware) - 1; i >= 0; i-- {
		h = c.middleware[i](eventType, h)
	}
	return h, true
}

func (c *Coordinator) afterPublish(ctx context.Context, evt primitives.Event, from uint64, snap primitives.Snapshot) {
	if c.persister != nil {
		if err := c.persister.Save(ctx, snap); err != nil {
			c.logger.Error("persist snapshot", "version", snap.Version, "error", err)
		}
	}
	if c.publisher != nil {
		t := Transition{
			StoreID:     snap.StoreID,
			Event:       evt.Type,
			FromVersion: from,
			ToVersion:   snap.Version,
			Timestamp:   snap.Timestamp,
		}
		if err := c.publisher.Publish(ctx, evt, snap, t); err != nil {
			c.logger.Error("publish transition", "event", evt.Type, "error", err)
		}
	}
}

func (c *Coordinator) report(evt primitives.Event, err error) {
	c.logger.Error("event handler failed", "type", evt.Type, "error", err)
	select {
	case c.errs <- err:
	default:
		c.logger.Warn("error channel full, dropping error", "type", evt.Type)
	}
}
