package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/comalice/a11yx/internal/primitives"
)

// VerboseLogLevel is the logLevel option at which INIT requests are logged.
const VerboseLogLevel = 2

// InitHandler resets the state to its defaults, keeping only the request options.
// The request is logged when the effective log level (the request's logLevel, or
// the stored one when the request has none) is at least VerboseLogLevel.
func InitHandler(logger *slog.Logger) Handler {
	return func(ctx context.Context, cur primitives.State, evt primitives.Event) (primitives.State, error) {
		req, err := payload[primitives.InitRequest](evt)
		if err != nil {
			return primitives.State{}, err
		}

		level := req.Options.LogLevelOr(cur.Options.LogLevelOr(0))
		if level >= VerboseLogLevel {
			logger.Info("init request", "type", evt.Type, "options", req.Options)
		}

		next := primitives.DefaultState()
		next.Options = req.Options.Clone()
		return next, nil
	}
}

// NavigateHandler moves to the requested screen and marks the state READY.
// Fields the request does not set are carried over from cur.
func NavigateHandler(ctx context.Context, cur primitives.State, evt primitives.Event) (primitives.State, error) {
	req, err := payload[primitives.NavigateRequest](evt)
	if err != nil {
		return primitives.State{}, err
	}
	if req.Screen == "" {
		return primitives.State{}, fmt.Errorf("%w: navigate request without screen", ErrInvalidEvent)
	}

	next := cur.Clone()
	next.Screen = req.Screen
	next.Status = primitives.StatusReady
	if req.Focus != "" {
		next.FocusTarget = req.Focus
	}
	return next, nil
}

// StatusHandler replaces the status.
func StatusHandler(ctx context.Context, cur primitives.State, evt primitives.Event) (primitives.State, error) {
	req, err := payload[primitives.StatusUpdate](evt)
	if err != nil {
		return primitives.State{}, err
	}
	if !req.Status.Valid() {
		return primitives.State{}, fmt.Errorf("%w: unknown status %q", ErrInvalidEvent, req.Status)
	}

	next := cur.Clone()
	next.Status = req.Status
	return next, nil
}

// FocusHandler records the focus target. An empty target clears it.
func FocusHandler(ctx context.Context, cur primitives.State, evt primitives.Event) (primitives.State, error) {
	req, err := payload[primitives.FocusChanged](evt)
	if err != nil {
		return primitives.State{}, err
	}

	next := cur.Clone()
	next.FocusTarget = req.Target
	return next, nil
}

// payload extracts a T or *T from evt.Data.
func payload[T any](evt primitives.Event) (T, error) {
	switch v := evt.Data.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s carries %T", ErrBadPayload, evt.Type, evt.Data)
}
