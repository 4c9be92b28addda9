package a11yx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/comalice/a11yx/internal/config"
	"github.com/comalice/a11yx/internal/core"
	"github.com/comalice/a11yx/internal/extensibility"
	"github.com/comalice/a11yx/internal/focus"
	"github.com/comalice/a11yx/internal/logging"
	"github.com/comalice/a11yx/internal/markup"
	"github.com/comalice/a11yx/internal/primitives"
	"github.com/comalice/a11yx/internal/production"
)

// StoreID names the single accessibility store.
const StoreID = "a11y"

// RuntimeOption configures a Runtime.
type RuntimeOption func(*runtimeOptions)

type runtimeOptions struct {
	logOutput  io.Writer
	publishers []core.Publisher
	middleware []core.Middleware
	target     focus.Target
}

// WithLogOutput sends logs to w instead of stderr.
func WithLogOutput(w io.Writer) RuntimeOption {
	return func(o *runtimeOptions) { o.logOutput = w }
}

// WithPublisher adds a publisher notified after every state change.
func WithPublisher(p Publisher) RuntimeOption {
	return func(o *runtimeOptions) { o.publishers = append(o.publishers, p) }
}

// WithMiddleware wraps every handler.
func WithMiddleware(mw ...Middleware) RuntimeOption {
	return func(o *runtimeOptions) { o.middleware = append(o.middleware, mw...) }
}

// WithFocusTarget sets the UI element focuser. Without one, focus calls only
// record the target in the state.
func WithFocusTarget(t FocusTarget) RuntimeOption {
	return func(o *runtimeOptions) { o.target = t }
}

// Runtime bundles the store, coordinator, focus manager and annotation rules
// built from one Config.
type Runtime struct {
	logger    *slog.Logger
	level     *slog.LevelVar
	store     *core.Store
	coord     *core.Coordinator
	focus     *focus.Manager
	annotator *markup.Annotator
	rules     atomic.Pointer[markup.Ruleset]
	options   atomic.Pointer[primitives.Options]
	closers   []io.Closer
	stopOnce  sync.Once
	cancel    context.CancelFunc
}

// NewRuntime builds a Runtime. A nil cfg means config.Default().
func NewRuntime(cfg *config.Config, opts ...RuntimeOption) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	var o runtimeOptions
	for _, opt := range opts {
		opt(&o)
	}

	level := new(slog.LevelVar)
	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: o.logOutput,
		Var:    level,
	})
	if err != nil {
		return nil, err
	}

	r := &Runtime{
		logger:    logger,
		level:     level,
		store:     core.NewStore(StoreID, primitives.DefaultState(), logger),
		annotator: markup.NewAnnotator(logger),
	}
	rules := cfg.Rules
	r.rules.Store(&rules)
	options := primitives.Options(cfg.Options).Clone()
	r.options.Store(&options)

	coordOpts := []core.Option{
		core.WithLogger(logger),
		core.WithMiddleware(append([]core.Middleware{
			extensibility.FollowLogLevel(level),
			extensibility.Logging(logger, core.VerboseLogLevel),
		}, o.middleware...)...),
	}
	if cfg.Coordinator.QueueSize > 0 {
		coordOpts = append(coordOpts, core.WithQueueSize(cfg.Coordinator.QueueSize))
	}

	persister, err := r.openPersister(cfg.Persistence)
	if err != nil {
		return nil, err
	}
	if persister != nil {
		coordOpts = append(coordOpts, core.WithPersister(persister))
	}
	switch len(o.publishers) {
	case 0:
	case 1:
		coordOpts = append(coordOpts, core.WithPublisher(o.publishers[0]))
	default:
		coordOpts = append(coordOpts, core.WithPublisher(production.MultiPublisher(o.publishers)))
	}
	r.coord = core.NewCoordinator(r.store, coordOpts...)

	target := o.target
	if target == nil {
		target = focus.TargetFunc(func(context.Context, string) error { return nil })
	}
	r.focus = focus.NewManager(target,
		focus.WithNotifier(r.coord),
		focus.WithPostDelay(cfg.Focus.PostDelay),
		focus.WithLogger(logger),
	)
	return r, nil
}

func (r *Runtime) openPersister(pc config.PersistenceConfig) (core.Persister, error) {
	switch pc.Driver {
	case config.DriverJSON:
		return production.NewJSONPersister(pc.Path)
	case config.DriverYAML:
		return production.NewYAMLPersister(pc.Path)
	case config.DriverSQLite:
		p, err := production.NewSQLitePersister(pc.Path, r.logger)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, p)
		return p, nil
	default:
		return nil, nil
	}
}

// Start restores persisted state, if any, and starts processing events.
func (r *Runtime) Start(ctx context.Context) error {
	if err := r.coord.Restore(ctx); err != nil {
		return err
	}
	// Restored options override the configured verbosity; handlers keep it current.
	if lvl, ok := r.store.Options().LogLevel(); ok {
		r.level.Set(logging.LevelForOption(lvl))
	}

	ctx, r.cancel = context.WithCancel(ctx)
	if err := r.coord.Start(ctx); err != nil {
		r.cancel()
		return err
	}
	return nil
}

// Stop stops the coordinator and closes the persister.
func (r *Runtime) Stop() error {
	var errs []error
	r.stopOnce.Do(func() {
		errs = append(errs, r.coord.Stop())
		if r.cancel != nil {
			r.cancel()
		}
		for _, c := range r.closers {
			errs = append(errs, c.Close())
		}
	})
	return errors.Join(errs...)
}

// Logger returns the runtime's logger.
func (r *Runtime) Logger() *slog.Logger { return r.logger }

// Dispatch enqueues evt without waiting.
func (r *Runtime) Dispatch(ctx context.Context, evt Event) error {
	return r.coord.Send(ctx, evt)
}

// DispatchSync enqueues evt and waits for its handler.
func (r *Runtime) DispatchSync(ctx context.Context, evt Event) error {
	return r.coord.SendSync(ctx, evt)
}

// Init resets the state with options. A nil options uses the configured ones.
func (r *Runtime) Init(ctx context.Context, options Options) error {
	if options == nil {
		options = r.options.Load().Clone()
	}
	return r.DispatchSync(ctx, Init(options))
}

// Navigate moves to screen and, when focusTarget is set, records it.
func (r *Runtime) Navigate(ctx context.Context, screen, focusTarget string) error {
	return r.DispatchSync(ctx, Navigate(screen, focusTarget))
}

// Handle registers a handler for a custom event type.
func (r *Runtime) Handle(eventType string, h Handler) {
	r.coord.Handle(eventType, h)
}

// Errors reports handler failures of fire-and-forget dispatches.
func (r *Runtime) Errors() <-chan error { return r.coord.Errors() }

// Snapshot returns the current versioned state.
func (r *Runtime) Snapshot() Snapshot { return r.store.Select() }

// Status returns the current status.
func (r *Runtime) Status() Status { return r.store.Status() }

// Screen returns the current screen, "" when none.
func (r *Runtime) Screen() string { return r.store.Screen() }

// Subscribe streams every published snapshot until ctx is done.
func (r *Runtime) Subscribe(ctx context.Context) <-chan Snapshot {
	ch, _ := r.store.Subscribe(ctx)
	return ch
}

// SetFocus focuses target, serialized against other focus calls for it.
func (r *Runtime) SetFocus(ctx context.Context, target string) error {
	return r.focus.SetFocus(ctx, target)
}

// PostFocus focuses target after the configured delay.
func (r *Runtime) PostFocus(ctx context.Context, target string) <-chan error {
	return r.focus.PostFocus(ctx, target)
}

// Annotate applies the current rule set to text.
func (r *Runtime) Annotate(text string) string {
	return r.annotator.ApplyRules(text, *r.rules.Load())
}

// Rules returns the current rule set.
func (r *Runtime) Rules() Ruleset { return *r.rules.Load() }

// SetRules replaces the rule set used by Annotate.
func (r *Runtime) SetRules(rules Ruleset) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	r.rules.Store(&rules)
	return nil
}

// Reload adopts the rules and options of a new config, e.g. from config.Watcher.
// Persistence, queue and logging format changes need a new Runtime.
func (r *Runtime) Reload(cfg *config.Config) error {
	if err := r.SetRules(cfg.Rules); err != nil {
		return err
	}
	options := primitives.Options(cfg.Options).Clone()
	r.options.Store(&options)
	r.logger.Info("rules reloaded",
		"labels", len(cfg.Rules.Labels),
		"classes", len(cfg.Rules.Classes),
		"class_texts", len(cfg.Rules.ClassTexts))
	return nil
}
