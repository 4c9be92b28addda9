package primitives

import (
	"fmt"
	"time"
)

// Status is the coarse lifecycle of the accessibility layer as seen by UI code.
type Status string

const (
	StatusIdle    Status = "IDLE"
	StatusLoading Status = "LOADING"
	StatusReady   Status = "READY"
	StatusError   Status = "ERROR"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusIdle, StatusLoading, StatusReady, StatusError:
		return true
	}
	return false
}

// ParseStatus converts a status name into a Status.
func ParseStatus(name string) (Status, error) {
	s := Status(name)
	if !s.Valid() {
		return "", fmt.Errorf("unknown status %q", name)
	}
	return s, nil
}

// State is the single accessibility state record.
// Screen and FocusTarget use "" for "none".
type State struct {
	Options     Options `json:"options" yaml:"options"`
	Screen      string  `json:"screen" yaml:"screen"`
	Status      Status  `json:"status" yaml:"status"`
	FocusTarget string  `json:"focusTarget" yaml:"focusTarget"`
}

// DefaultState returns the state a store holds before any INIT_REQUEST.
func DefaultState() State {
	return State{
		Options: Options{},
		Status:  StatusIdle,
	}
}

// Clone returns a deep copy of the state so callers can derive the next record
// without aliasing the published one.
func (s State) Clone() State {
	s.Options = s.Options.Clone()
	return s
}

// Snapshot is a versioned, immutable view of the state cell.
type Snapshot struct {
	StoreID   string    `json:"storeID" yaml:"storeID"`
	Version   uint64    `json:"version" yaml:"version"`
	State     State     `json:"state" yaml:"state"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	s.State = s.State.Clone()
	return s
}
