package extensibility

import (
	"testing"
	"time"

	"github.com/comalice/a11yx/internal/primitives"
)

func TestChannelEventSource(t *testing.T) {
	ch := make(chan primitives.Event, 1)
	s := NewChannelEventSource(ch)
	ch <- primitives.FocusChangedEvent("x")
	select {
	case ev := <-s.Events():
		if ev.Type != primitives.EventFocusChanged {
			t.Errorf("wrong event type %q", ev.Type)
		}
	default:
		t.Error("Events() should expose ch")
	}
}

func TestTimerEventSource(t *testing.T) {
	s := NewTimerEventSource(primitives.StatusUpdateEvent(primitives.StatusLoading), 20*time.Millisecond)
	defer s.Stop()

	for i := 0; i < 2; i++ {
		select {
		case ev := <-s.Events():
			if ev.Type != primitives.EventStatusUpdate {
				t.Errorf("tick %d: wrong event type %q", i, ev.Type)
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("tick %d: no event received", i)
		}
	}
}

func TestTimerEventSource_StopClosesChannel(t *testing.T) {
	s := NewTimerEventSource(primitives.NewEvent("tick", nil), 10*time.Millisecond)
	s.Stop()
	s.Stop()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-s.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after Stop")
		}
	}
}
