package terminal

import (
	"time"

	"github.com/GriffinCanCode/tami/internal/shared/id"
	"github.com/GriffinCanCode/tami/internal/shared/paths"
	"github.com/GriffinCanCode/tami/internal/shared/types"
)

// State is a session's lifecycle state.
type State int

const (
	StateStarting State = iota
	StateRunning
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Session is one shell bound to a directory. Its ID never changes, even
// across restarts.
type Session struct {
	ID        id.SessionID
	Shell     string
	StartedAt time.Time

	path       string
	liveDir    string
	state      State
	proc       Process
	output     *Buffer
	generation uint64
	restarts   int
	exitCode   int
	cols       int
	rows       int
}

// Path returns the directory the session was opened for.
func (s *Session) Path() string { return s.path }

// LiveDirectory returns the shell's current directory as last reported,
// or the opening directory when nothing has been reported.
func (s *Session) LiveDirectory() string { return s.liveDir }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Running reports whether the shell is alive.
func (s *Session) Running() bool { return s.state == StateRunning }

// Generation counts spawns. Events from an older generation are ignored.
func (s *Session) Generation() uint64 { return s.generation }

// Restarts returns how many times the session was restarted in place.
func (s *Session) Restarts() int { return s.restarts }

// ExitCode returns the last shell's exit status, or -1 if unknown.
func (s *Session) ExitCode() int { return s.exitCode }

// Size returns the terminal size.
func (s *Session) Size() (cols, rows int) { return s.cols, s.rows }

// Label is the last segment of the opening directory.
func (s *Session) Label() string { return paths.LastSegment(s.path) }

func (s *Session) Icon() types.Icon { return types.IconTerminal }

// Location is the live directory, so revealing a session follows its cd.
func (s *Session) Location() string { return s.liveDir }

// Info returns a snapshot suitable for display or JSON output.
func (s *Session) Info() SessionInfo {
	return SessionInfo{
		ID:            s.ID.String(),
		Path:          s.path,
		LiveDirectory: s.liveDir,
		Shell:         s.Shell,
		State:         s.state.String(),
		Cols:          s.cols,
		Rows:          s.rows,
		StartedAt:     s.StartedAt,
		Restarts:      s.restarts,
		ExitCode:      s.exitCode,
	}
}
