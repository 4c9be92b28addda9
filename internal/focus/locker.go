// Package focus serializes focus changes per target and reports them to the
// coordinator.
package focus

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrLockNotHeld is logged when a token is released that does not hold its key.
var ErrLockNotHeld = errors.New("focus: lock not held")

// Token identifies one successful Acquire.
type Token struct {
	ID  uuid.UUID
	Key string
}

// Locker grants at most one holder per key at a time.
// Safe for concurrent use; the zero value is not usable, call NewLocker.
type Locker struct {
	mu     sync.Mutex
	slots  map[string]*slot
	held   map[uuid.UUID]string
	logger *slog.Logger
}

// slot is removed from Locker.slots once no holder or waiter references it.
type slot struct {
	ch   chan struct{}
	refs int
}

// NewLocker creates a Locker. A nil logger falls back to slog.Default().
func NewLocker(logger *slog.Logger) *Locker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Locker{
		slots:  make(map[string]*slot),
		held:   make(map[uuid.UUID]string),
		logger: logger.With("component", "locker"),
	}
}

// ref returns the slot for key, creating it if needed. Callers must hold l.mu.
func (l *Locker) ref(key string) *slot {
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

// unref drops one reference to s. Callers must hold l.mu.
func (l *Locker) unref(key string, s *slot) {
	s.refs--
	if s.refs == 0 && l.slots[key] == s {
		delete(l.slots, key)
	}
}

// Acquire blocks until key is free or ctx is done.
func (l *Locker) Acquire(ctx context.Context, key string) (Token, error) {
	l.mu.Lock()
	s := l.ref(key)
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.mu.Lock()
		l.unref(key, s)
		l.mu.Unlock()
		return Token{}, ctx.Err()
	}

	tok := Token{ID: uuid.New(), Key: key}
	l.mu.Lock()
	l.held[tok.ID] = key
	l.mu.Unlock()
	return tok, nil
}

// Release frees the key held by tok. Releasing a zero, unknown or already
// released token does nothing but log a warning.
func (l *Locker) Release(tok Token) {
	l.mu.Lock()
	key, ok := l.held[tok.ID]
	if !ok || key != tok.Key {
		l.mu.Unlock()
		l.logger.Warn("release ignored", "key", tok.Key, "token", tok.ID, "error", ErrLockNotHeld)
		return
	}
	delete(l.held, tok.ID)
	s := l.slots[key]
	<-s.ch
	l.unref(key, s)
	l.mu.Unlock()
}

// Do runs fn while holding key. The key is released when fn returns or panics.
func (l *Locker) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	tok, err := l.Acquire(ctx, key)
	if err != nil {
		return err
	}
	defer l.Release(tok)
	return fn(ctx)
}

// Held reports whether key is currently locked.
func (l *Locker) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	return ok && len(s.ch) == 1
}
