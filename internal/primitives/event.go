// Event provides the immutable event primitive consumed by the request coordinator.
//
// Events are value types. Once created, Events should not be mutated. Use NewEvent or
// one of the typed constructors (InitRequestEvent, NavigateRequestEvent, ...) for
// construction.
//
// Example:
//
//	event := NavigateRequestEvent(NavigateRequest{Screen: "chapter-3"})
package primitives

// Event types understood by the default coordinator handlers.
const (
	EventInitRequest     = "A11Y/INIT_REQUEST"
	EventNavigateRequest = "A11Y/NAVIGATE_REQUEST"
	EventStatusUpdate    = "A11Y/STATUS_UPDATE"
	EventFocusChanged    = "A11Y/FOCUS_CHANGED"
)

type Event struct {
	Type string
	Data any
}

// NewEvent creates and returns a new immutable Event.
func NewEvent(eventType string, data any) Event {
	return Event{
		Type: eventType,
		Data: data,
	}
}

// InitRequest resets the accessibility state, keeping only Options.
type InitRequest struct {
	Options Options
}

// NavigateRequest moves the state to a new screen.
// Focus is optional; an empty Focus keeps the previous focus target.
type NavigateRequest struct {
	Screen string
	Focus  string
	Params map[string]any
}

// StatusUpdate replaces the status field.
type StatusUpdate struct {
	Status Status
}

// FocusChanged records the element that most recently received accessibility focus.
type FocusChanged struct {
	Target string
}

func InitRequestEvent(req InitRequest) Event {
	return NewEvent(EventInitRequest, req)
}

func NavigateRequestEvent(req NavigateRequest) Event {
	return NewEvent(EventNavigateRequest, req)
}

func StatusUpdateEvent(status Status) Event {
	return NewEvent(EventStatusUpdate, StatusUpdate{Status: status})
}

func FocusChangedEvent(target string) Event {
	return NewEvent(EventFocusChanged, FocusChanged{Target: target})
}
