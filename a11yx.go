// Package a11yx annotates markup fragments with ARIA attributes and coordinates
// the accessibility state (options, screen, status, focus) that UI code reads to
// decide focus and announcements.
//
// Annotation is pure: text in, text out, never an error. State changes go
// through a Runtime, which runs one event at a time against a single store.
package a11yx

import (
	"github.com/comalice/a11yx/internal/core"
	"github.com/comalice/a11yx/internal/focus"
	"github.com/comalice/a11yx/internal/markup"
	"github.com/comalice/a11yx/internal/primitives"
)

type (
	LabelSpec          = markup.LabelSpec
	ClassAttributeSpec = markup.ClassAttributeSpec
	ClassTextSpec      = markup.ClassTextSpec
	Wrapper            = markup.Wrapper
	Ruleset            = markup.Ruleset
	Annotation         = markup.Annotation

	State    = primitives.State
	Status   = primitives.Status
	Options  = primitives.Options
	Event    = primitives.Event
	Snapshot = primitives.Snapshot

	Handler    = core.Handler
	Middleware = core.Middleware
	Publisher  = core.Publisher
	Transition = core.Transition

	FocusTarget = focus.Target
	FocusFunc   = focus.TargetFunc
)

const (
	StatusIdle    = primitives.StatusIdle
	StatusLoading = primitives.StatusLoading
	StatusReady   = primitives.StatusReady
	StatusError   = primitives.StatusError
)

const (
	EventInitRequest     = primitives.EventInitRequest
	EventNavigateRequest = primitives.EventNavigateRequest
	EventStatusUpdate    = primitives.EventStatusUpdate
	EventFocusChanged    = primitives.EventFocusChanged
)

// Errors callers may match with errors.Is.
var (
	ErrQueueFull    = core.ErrQueueFull
	ErrNotRunning   = core.ErrNotRunning
	ErrHandlerPanic = core.ErrHandlerPanic
	ErrBadPayload   = core.ErrBadPayload
	ErrInvalidEvent = core.ErrInvalidEvent
	ErrNoFocus      = focus.ErrNoTarget
)

// Wrap surrounds every match of pattern in text with w. See markup.Wrap for flags.
func Wrap(text, pattern string, w Wrapper, flags string) string {
	return markup.Wrap(text, pattern, w, flags)
}

// AddLabel wraps each spec's target in a labelled span, applying specs in order.
func AddLabel(text string, specs ...LabelSpec) string {
	return markup.AddLabel(text, specs...)
}

// AddClassAttribute appends an attribute after each class="..." marker.
func AddClassAttribute(text string, specs ...ClassAttributeSpec) string {
	return markup.AddClassAttribute(text, specs...)
}

// AddClassAttributeAsText appends attrText after the marker of every class in classes.
func AddClassAttributeAsText(text string, classes []string, attrText string) string {
	return markup.AddClassAttributeAsText(text, classes, attrText)
}

// Escape quotes pattern metacharacters so s matches literally.
func Escape(s string) string {
	return markup.Escape(s)
}

// Inspect lists the annotated elements of text.
func Inspect(text string) ([]Annotation, error) {
	return markup.Inspect(text)
}

// Init builds an INIT_REQUEST event. It resets the state, keeping only options.
func Init(options Options) Event {
	return primitives.InitRequestEvent(primitives.InitRequest{Options: options})
}

// Navigate builds a NAVIGATE_REQUEST event. An empty focus keeps the current target.
func Navigate(screen, focusTarget string) Event {
	return primitives.NavigateRequestEvent(primitives.NavigateRequest{Screen: screen, Focus: focusTarget})
}

// SetStatus builds a STATUS_UPDATE event.
func SetStatus(status Status) Event {
	return primitives.StatusUpdateEvent(status)
}

// GetStatus selects the status from s.
func GetStatus(s State) Status { return s.Status }

// GetScreen selects the screen from s; "" means none.
func GetScreen(s State) string { return s.Screen }
