package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/a11yx/internal/primitives"
)

func TestStore_InitialSnapshot(t *testing.T) {
	s := NewStore("a11y", primitives.DefaultState(), nil)

	snap := s.Select()
	assert.Equal(t, "a11y", snap.StoreID)
	assert.Equal(t, uint64(0), snap.Version)
	assert.Equal(t, primitives.StatusIdle, s.Status())
	assert.Equal(t, "", s.Screen())
	assert.Equal(t, "", s.FocusTarget())
	assert.Empty(t, s.Options())
}

func TestStore_PutReplacesWholeRecord(t *testing.T) {
	s := NewStore("a11y", primitives.State{
		Options:     primitives.Options{"keep": false},
		Screen:      "old",
		Status:      primitives.StatusReady,
		FocusTarget: "title",
	}, nil)

	snap := s.put(primitives.State{Status: primitives.StatusLoading})
	assert.Equal(t, uint64(1), snap.Version)
	assert.Equal(t, primitives.StatusLoading, s.Status())
	assert.Equal(t, "", s.Screen())
	assert.Equal(t, "", s.FocusTarget())
	assert.Empty(t, s.Options())

	s.put(primitives.DefaultState())
	assert.Equal(t, uint64(2), s.Version())
}

func TestStore_SelectIsACopy(t *testing.T) {
	s := NewStore("a11y", primitives.State{Options: primitives.Options{"foo": "bar"}}, nil)

	snap := s.Select()
	snap.State.Options["foo"] = "mutated"
	opts := s.Options()
	opts["foo"] = "mutated too"

	assert.Equal(t, "bar", s.Select().State.Options["foo"])
}

func TestStore_SubscribeReceivesPublishes(t *testing.T) {
	s := NewStore("a11y", primitives.DefaultState(), nil)
	ch, _ := s.Subscribe(t.Context())

	s.put(primitives.State{Screen: "toc", Status: primitives.StatusReady})

	select {
	case snap := <-ch:
		assert.Equal(t, uint64(1), snap.Version)
		assert.Equal(t, "toc", snap.State.Screen)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
	}
}

func TestStore_UnsubscribeClosesChannel(t *testing.T) {
	s := NewStore("a11y", primitives.DefaultState(), nil)
	ch, id := s.Subscribe(t.Context())

	s.Unsubscribe(id)
	s.Unsubscribe(id)

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed")
}

func TestStore_ContextCancelUnsubscribes(t *testing.T) {
	s := NewStore("a11y", primitives.DefaultState(), nil)
	ctx, cancel := context.WithCancel(t.Context())
	ch, _ := s.Subscribe(ctx)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestStore_SlowSubscriberDoesNotBlock(t *testing.T) {
	s := NewStore("a11y", primitives.DefaultState(), nil)
	_, _ = s.Subscribe(t.Context())

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBufferSize*2; i++ {
			s.put(primitives.DefaultState())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("put blocked on a full subscriber")
	}
	assert.Equal(t, uint64(subscriberBufferSize*2), s.Version())
}

func TestStore_Restore(t *testing.T) {
	s := NewStore("a11y", primitives.DefaultState(), nil)
	s.restore(primitives.Snapshot{
		StoreID: "other",
		Version: 7,
		State:   primitives.State{Screen: "p2", Status: primitives.StatusReady},
	})

	snap := s.Select()
	assert.Equal(t, "a11y", snap.StoreID)
	assert.Equal(t, uint64(7), snap.Version)
	assert.Equal(t, "p2", snap.State.Screen)
}
