package core

import "log/slog"

// WithLogger configures the Coordinator logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithQueueSize configures the event queue buffer size.
func WithQueueSize(size int) Option {
	return func(c *Coordinator) {
		if size > 0 {
			c.queue = make(chan envelope, size)
		}
	}
}

// WithPersister saves every published snapshot.
func WithPersister(p Persister) Option {
	return func(c *Coordinator) {
		c.persister = p
	}
}

// WithPublisher forwards every publish to pb.
func WithPublisher(pb Publisher) Option {
	return func(c *Coordinator) {
		c.publisher = pb
	}
}

// WithEventSource forwards events from s into the queue once started.
func WithEventSource(s EventSource) Option {
	return func(c *Coordinator) {
		c.eventSource = s
	}
}

// WithHandler registers h for eventType, replacing any default handler.
func WithHandler(eventType string, h Handler) Option {
	return func(c *Coordinator) {
		c.handlers[eventType] = h
	}
}

// WithMiddleware wraps every handler. The first middleware is the outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Coordinator) {
		c.middleware = append(c.middleware, mw...)
	}
}
