package primitives

import "testing"

func TestNewEvent(t *testing.T) {
	e := NewEvent("test", 42)
	if e.Type != "test" {
		t.Errorf("got Type=%q want test", e.Type)
	}
	if v, ok := e.Data.(int); !ok || v != 42 {
		t.Errorf("got Data=%v (%T) want 42", e.Data, e.Data)
	}
}

func TestEventImmutability(t *testing.T) {
	e := NewEvent("test", 42)
	eCopy := e
	eCopy.Type = "modified"
	eCopy.Data = "changed"
	if e.Type != "test" {
		t.Error("original Type was mutated")
	}
	if v, ok := e.Data.(int); !ok || v != 42 {
		t.Error("original Data was mutated")
	}
}

func TestTypedConstructors(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		wantType string
	}{
		{"init", InitRequestEvent(InitRequest{Options: Options{"logLevel": 1}}), EventInitRequest},
		{"navigate", NavigateRequestEvent(NavigateRequest{Screen: "toc"}), EventNavigateRequest},
		{"status", StatusUpdateEvent(StatusLoading), EventStatusUpdate},
		{"focus", FocusChangedEvent("title"), EventFocusChanged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.Type != tt.wantType {
				t.Errorf("got Type=%q want %q", tt.event.Type, tt.wantType)
			}
			if tt.event.Data == nil {
				t.Error("payload is nil")
			}
		})
	}

	nav := NavigateRequestEvent(NavigateRequest{Screen: "toc", Focus: "heading"})
	req, ok := nav.Data.(NavigateRequest)
	if !ok || req.Screen != "toc" || req.Focus != "heading" {
		t.Errorf("navigate payload = %#v", nav.Data)
	}
}
