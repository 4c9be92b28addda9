package focus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/a11yx/internal/primitives"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []primitives.Event
	err    error
}

func (n *recordingNotifier) Send(ctx context.Context, evt primitives.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, evt)
	return n.err
}

func (n *recordingNotifier) all() []primitives.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]primitives.Event(nil), n.events...)
}

func TestManager_SetFocusNotifies(t *testing.T) {
	var focused []string
	target := TargetFunc(func(ctx context.Context, id string) error {
		focused = append(focused, id)
		return nil
	})
	n := &recordingNotifier{}
	m := NewManager(target, WithNotifier(n))

	require.NoError(t, m.SetFocus(t.Context(), "chapter-title"))

	assert.Equal(t, []string{"chapter-title"}, focused)
	events := n.all()
	require.Len(t, events, 1)
	assert.Equal(t, primitives.EventFocusChanged, events[0].Type)
	assert.Equal(t, primitives.FocusChanged{Target: "chapter-title"}, events[0].Data)
	assert.False(t, m.Locker().Held("chapter-title"))
}

func TestManager_SetFocusEmptyTarget(t *testing.T) {
	m := NewManager(TargetFunc(func(context.Context, string) error {
		t.Fatal("target must not be called")
		return nil
	}))
	assert.ErrorIs(t, m.SetFocus(t.Context(), ""), ErrNoTarget)
}

func TestManager_FailedFocusSkipsNotifyAndReleases(t *testing.T) {
	gone := errors.New("element gone")
	n := &recordingNotifier{}
	m := NewManager(TargetFunc(func(context.Context, string) error { return gone }), WithNotifier(n))

	err := m.SetFocus(t.Context(), "menu")
	assert.ErrorIs(t, err, gone)
	assert.Empty(t, n.all())
	assert.False(t, m.Locker().Held("menu"))
}

func TestManager_NotifyError(t *testing.T) {
	queueFull := errors.New("queue full")
	n := &recordingNotifier{err: queueFull}
	m := NewManager(TargetFunc(func(context.Context, string) error { return nil }), WithNotifier(n))

	assert.ErrorIs(t, m.SetFocus(t.Context(), "menu"), queueFull)
}

func TestManager_ConcurrentSetFocusSerialized(t *testing.T) {
	var inside, overlaps atomic.Int32
	target := TargetFunc(func(ctx context.Context, id string) error {
		if inside.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(time.Millisecond)
		inside.Add(-1)
		return nil
	})
	m := NewManager(target)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, m.SetFocus(context.Background(), "toc"))
		}()
	}
	wg.Wait()

	assert.Zero(t, overlaps.Load())
}

func TestManager_PostFocusWaitsForDelay(t *testing.T) {
	var focusedAt atomic.Int64
	m := NewManager(TargetFunc(func(context.Context, string) error {
		focusedAt.Store(time.Now().UnixNano())
		return nil
	}), WithPostDelay(30*time.Millisecond))

	start := time.Now()
	select {
	case err, ok := <-m.PostFocus(t.Context(), "page"):
		require.True(t, ok)
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("PostFocus never delivered")
	}
	assert.GreaterOrEqual(t, time.Duration(focusedAt.Load()-start.UnixNano()), 30*time.Millisecond)
}

func TestManager_PostFocusCancelled(t *testing.T) {
	called := false
	m := NewManager(TargetFunc(func(context.Context, string) error {
		called = true
		return nil
	}), WithPostDelay(time.Hour))

	ctx, cancel := context.WithCancel(t.Context())
	ch := m.PostFocus(ctx, "page")
	cancel()

	err := <-ch
	assert.ErrorIs(t, err, context.Canceled)
	_, open := <-ch
	assert.False(t, open)
	assert.False(t, called)
}
