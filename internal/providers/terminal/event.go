package terminal

import (
	"time"

	"github.com/GriffinCanCode/tami/internal/shared/id"
)

// EventKind identifies what a background goroutine observed.
type EventKind int

const (
	// EventDirectoryChanged carries a working directory reported by the shell.
	EventDirectoryChanged EventKind = iota
	// EventExited reports that the shell process ended.
	EventExited
)

func (k EventKind) String() string {
	switch k {
	case EventDirectoryChanged:
		return "directory_changed"
	case EventExited:
		return "exited"
	default:
		return "unknown"
	}
}

// Event is posted by a session's goroutines and applied on the control
// goroutine with Registry.Apply.
type Event struct {
	ID         id.EventID
	Kind       EventKind
	SessionID  id.SessionID
	Generation uint64
	Path       string
	ExitCode   int
	Err        error
	At         time.Time
}
