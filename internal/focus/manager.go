package focus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/comalice/a11yx/internal/primitives"
)

// DefaultPostDelay is how long PostFocus waits before moving focus.
const DefaultPostDelay = 100 * time.Millisecond

// ErrNoTarget is returned when focus is requested without a target id.
var ErrNoTarget = errors.New("focus: empty target")

// Target moves UI focus to the element identified by id.
type Target interface {
	Focus(ctx context.Context, id string) error
}

// TargetFunc adapts a function to Target.
type TargetFunc func(ctx context.Context, id string) error

func (f TargetFunc) Focus(ctx context.Context, id string) error { return f(ctx, id) }

// Notifier receives FOCUS_CHANGED events. *core.Coordinator satisfies it.
type Notifier interface {
	Send(ctx context.Context, evt primitives.Event) error
}

// Option configures a Manager.
type Option func(*Manager)

// WithNotifier reports successful focus changes to n.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithPostDelay overrides DefaultPostDelay. Negative values are ignored.
func WithPostDelay(d time.Duration) Option {
	return func(m *Manager) {
		if d >= 0 {
			m.delay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithLocker shares a Locker between managers.
func WithLocker(l *Locker) Option {
	return func(m *Manager) { m.locker = l }
}

// Manager moves focus one caller at a time per target.
type Manager struct {
	target   Target
	notifier Notifier
	locker   *Locker
	delay    time.Duration
	logger   *slog.Logger
}

// NewManager creates a Manager driving target.
func NewManager(target Target, opts ...Option) *Manager {
	m := &Manager{
		target: target,
		delay:  DefaultPostDelay,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "focus")
	if m.locker == nil {
		m.locker = NewLocker(m.logger)
	}
	return m
}

// Locker returns the locker guarding focus targets.
func (m *Manager) Locker() *Locker {
	return m.locker
}

// SetFocus focuses id while holding its lock, then notifies the coordinator.
func (m *Manager) SetFocus(ctx context.Context, id string) error {
	if id == "" {
		return ErrNoTarget
	}
	return m.locker.Do(ctx, id, func(ctx context.Context) error {
		if err := m.target.Focus(ctx, id); err != nil {
			m.logger.Warn("set focus failed", "target", id, "error", err)
			return fmt.Errorf("focus %q: %w", id, err)
		}
		m.logger.Debug("focus set", "target", id)

		if m.notifier == nil {
			return nil
		}
		if err := m.notifier.Send(ctx, primitives.FocusChangedEvent(id)); err != nil {
			return fmt.Errorf("notify focus %q: %w", id, err)
		}
		return nil
	})
}

// PostFocus calls SetFocus after the post delay. The result is delivered on the
// returned channel, which is closed afterwards.
func (m *Manager) PostFocus(ctx context.Context, id string) <-chan error {
	result := make(chan error, 1)
	go func() {
		defer close(result)
		timer := time.NewTimer(m.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			result <- ctx.Err()
		case <-timer.C:
			result <- m.SetFocus(ctx, id)
		}
	}()
	return result
}
