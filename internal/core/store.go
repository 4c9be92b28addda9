package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comalice/a11yx/internal/primitives"
)

// subscriberBufferSize is the channel buffer for each store subscriber.
const subscriberBufferSize = 64

// Store is the single, versioned accessibility state cell.
// Reads are safe from any goroutine. Writes happen only through the Coordinator
// that owns the store, and always replace the whole record.
type Store struct {
	id     string
	mu     sync.RWMutex
	snap   primitives.Snapshot
	subsMu sync.RWMutex
	subs   map[string]chan primitives.Snapshot
	logger *slog.Logger
}

// NewStore creates a store holding initial at version 0. Pass nil logger for default.
func NewStore(id string, initial primitives.State, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		id: id,
		snap: primitives.Snapshot{
			StoreID:   id,
			State:     initial.Clone(),
			Timestamp: time.Now(),
		},
		subs:   make(map[string]chan primitives.Snapshot),
		logger: logger.With("component", "store", "store_id", id),
	}
}

// ID returns the store identifier used for persistence.
func (s *Store) ID() string {
	return s.id
}

// Select returns a deep copy of the current snapshot.
func (s *Store) Select() primitives.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// Status returns the current status.
func (s *Store) Status() primitives.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.State.Status
}

// Screen returns the current screen, "" when none.
func (s *Store) Screen() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.State.Screen
}

// FocusTarget returns the current focus target, "" when none.
func (s *Store) FocusTarget() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.State.FocusTarget
}

// Options returns a copy of the current options.
func (s *Store) Options() primitives.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.State.Options.Clone()
}

// Version returns the current snapshot version.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Version
}

// put replaces the whole state and bumps the version.
func (s *Store) put(next primitives.State) primitives.Snapshot {
	s.mu.Lock()
	s.snap = primitives.Snapshot{
		StoreID:   s.id,
		Version:   s.snap.Version + 1,
		State:     next.Clone(),
		Timestamp: time.Now(),
	}
	snap := s.snap.Clone()
	s.mu.Unlock()

	s.broadcast(snap)
	return snap
}

// restore replaces state and version with a persisted snapshot.
func (s *Store) restore(snap primitives.Snapshot) {
	snap = snap.Clone()
	snap.StoreID = s.id

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	s.broadcast(snap.Clone())
}

// Subscribe returns a channel receiving every snapshot published after the call,
// plus an ID for Unsubscribe. The subscription ends when ctx is cancelled.
// Slow subscribers miss snapshots rather than block publishing.
func (s *Store) Subscribe(ctx context.Context) (<-chan primitives.Snapshot, string) {
	subID := uuid.New().String()
	ch := make(chan primitives.Snapshot, subscriberBufferSize)

	s.subsMu.Lock()
	s.subs[subID] = ch
	s.subsMu.Unlock()

	s.logger.Debug("subscriber added", "sub_id", subID)

	go func() {
		<-ctx.Done()
		s.Unsubscribe(subID)
	}()

	return ch, subID
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(subID string) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	ch, ok := s.subs[subID]
	if !ok {
		return
	}
	delete(s.subs, subID)
	close(ch)

	s.logger.Debug("subscriber removed", "sub_id", subID)
}

func (s *Store) broadcast(snap primitives.Snapshot) {
	s.subsMu.RLock()
	defer s.subsMu.RUnlock()

	for id, ch := range s.subs {
		select {
		case ch <- snap.Clone():
		default:
			s.logger.Debug("dropped snapshot for slow subscriber",
				"sub_id", id,
				"version", snap.Version)
		}
	}
}
