package extensibility

import (
	"context"
	"log/slog"
	"time"

	"github.com/comalice/a11yx/internal/core"
	"github.com/comalice/a11yx/internal/logging"
	"github.com/comalice/a11yx/internal/primitives"
)

// FollowLogLevel returns middleware that keeps v in step with the logLevel option.
// An INIT request carrying logLevel sets v before its handler runs, so the request
// is logged at the verbosity it asks for. Every successful handler then sets v
// from the state it produced. States without logLevel leave v unchanged.
func FollowLogLevel(v *slog.LevelVar) core.Middleware {
	apply := func(opts primitives.Options) {
		if lvl, ok := opts.LogLevel(); ok {
			v.Set(logging.LevelForOption(lvl))
		}
	}

	return func(eventType string, next core.Handler) core.Handler {
		return func(ctx context.Context, cur primitives.State, evt primitives.Event) (primitives.State, error) {
			if eventType == primitives.EventInitRequest {
				switch req := evt.Data.(type) {
				case primitives.InitRequest:
					apply(req.Options)
				case *primitives.InitRequest:
					if req != nil {
						apply(req.Options)
					}
				}
			}

			out, err := next(ctx, cur, evt)
			if err == nil {
				apply(out.Options)
			}
			return out, err
		}
	}
}

// Logging returns middleware that logs each handler run once the state's
// logLevel option reaches minLevel. Pass nil logger for slog.Default().
func Logging(logger *slog.Logger, minLevel int) core.Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "handler")

	return func(eventType string, next core.Handler) core.Handler {
		return func(ctx context.Context, cur primitives.State, evt primitives.Event) (primitives.State, error) {
			if cur.Options.LogLevelOr(0) < minLevel {
				return next(ctx, cur, evt)
			}

			logger.Debug("handling event", "type", eventType, "screen", cur.Screen, "status", cur.Status)
			start := time.Now()
			out, err := next(ctx, cur, evt)
			logger.Debug("event handled",
				"type", eventType,
				"elapsed", time.Since(start),
				"screen", out.Screen,
				"status", out.Status,
				"error", err)
			return out, err
		}
	}
}

// Only restricts mw to the listed event types.
func Only(mw core.Middleware, eventTypes ...string) core.Middleware {
	set := make(map[string]struct{}, len(eventTypes))
	for _, t := range eventTypes {
		set[t] = struct{}{}
	}
	return func(eventType string, next core.Handler) core.Handler {
		if _, ok := set[eventType]; !ok {
			return next
		}
		return mw(eventType, next)
	}
}
