package terminal

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/tami/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/tami/internal/shared/id"
	"github.com/GriffinCanCode/tami/internal/shared/paths"
)

var (
	// ErrSessionNotFound is returned for sessions the registry does not hold.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionClosed is returned for I/O on a session whose shell is gone.
	ErrSessionClosed = errors.New("session is not running")
	// ErrRegistryClosed is returned by Open after Shutdown.
	ErrRegistryClosed = errors.New("registry is shut down")
)

const (
	defaultCols       = 80
	defaultRows       = 24
	defaultTerm       = "xterm-256color"
	defaultBufferSize = 1 << 20
	defaultEventQueue = 256
	readChunkSize     = 4096

	// drainTimeout bounds how long the exit monitor waits for the reader
	// to hit end of output before closing the terminal.
	drainTimeout = 200 * time.Millisecond
)

// Registry holds one session per directory.
type Registry struct {
	spawner Spawner
	shell   ShellResolver

	cols       int
	rows       int
	term       string
	env        map[string]string
	bufferSize int

	byPath map[string]*Session
	byID   map[id.SessionID]*Session
	order  []*Session

	events chan Event
	done   chan struct{}
	closed bool
	wg     sync.WaitGroup

	logger  *zap.Logger
	metrics *monitoring.Metrics
	now     func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics records session activity on m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithShellResolver sets how the shell is chosen for each spawn.
func WithShellResolver(resolve ShellResolver) Option {
	return func(r *Registry) {
		if resolve != nil {
			r.shell = resolve
		}
	}
}

// WithWindowSize sets the initial terminal size of new sessions.
func WithWindowSize(cols, rows int) Option {
	return func(r *Registry) {
		if cols > 0 && rows > 0 {
			r.cols, r.rows = cols, rows
		}
	}
}

// WithTerm sets TERM for spawned shells.
func WithTerm(term string) Option {
	return func(r *Registry) {
		if term != "" {
			r.term = term
		}
	}
}

// WithEnv adds variables to every spawned shell's environment.
func WithEnv(env map[string]string) Option {
	return func(r *Registry) { r.env = maps.Clone(env) }
}

// WithOutputBuffer sets the per-session output ring size in bytes.
func WithOutputBuffer(size int) Option {
	return func(r *Registry) {
		if size > 0 {
			r.bufferSize = size
		}
	}
}

// WithEventQueue sets the capacity of the event channel.
func WithEventQueue(size int) Option {
	return func(r *Registry) {
		if size > 0 {
			r.events = make(chan Event, size)
		}
	}
}

// NewRegistry creates an empty registry that starts shells with spawner.
func NewRegistry(spawner Spawner, opts ...Option) *Registry {
	r := &Registry{
		spawner:    spawner,
		shell:      LoginShell("/bin/zsh"),
		cols:       defaultCols,
		rows:       defaultRows,
		term:       defaultTerm,
		bufferSize: defaultBufferSize,
		byPath:     make(map[string]*Session),
		byID:       make(map[id.SessionID]*Session),
		events:     make(chan Event, defaultEventQueue),
		done:       make(chan struct{}),
		logger:     zap.NewNop(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open returns the session for path, starting one if needed. created is
// true only when a new session was added. A terminated session is
// restarted in place and returned with created false.
func (r *Registry) Open(path string) (*Session, bool, error) {
	key, err := paths.Normalize(path)
	if err != nil {
		return nil, false, err
	}
	if r.closed {
		return nil, false, ErrRegistryClosed
	}

	if s, ok := r.byPath[key]; ok {
		if s.state != StateTerminated {
			return s, false, nil
		}
		if err := r.start(s, true); err != nil {
			return s, false, err
		}
		r.logger.Info("Restarted session",
			zap.String("session_id", s.ID.String()),
			zap.String("path", s.path),
			zap.Int("restarts", s.restarts))
		return s, false, nil
	}

	s := &Session{
		ID:       id.NewSessionID(),
		path:     key,
		liveDir:  key,
		state:    StateStarting,
		exitCode: -1,
		cols:     r.cols,
		rows:     r.rows,
	}
	if err := r.start(s, false); err != nil {
		return nil, false, err
	}

	r.byPath[key] = s
	r.byID[s.ID] = s
	r.order = append(r.order, s)

	r.logger.Info("Created session",
		zap.String("session_id", s.ID.String()),
		zap.String("path", s.path),
		zap.String("shell", s.Shell),
		zap.Int("pid", s.proc.Pid()))

	return s, true, nil
}

// start spawns a shell for s and launches its goroutines. On failure s is
// left Terminated.
func (r *Registry) start(s *Session, restart bool) error {
	shell := r.shell()
	spec := SpawnSpec{
		Path: shell,
		Args: LoginArgs(shell),
		Dir:  s.path,
		Env:  r.environ(),
		Cols: s.cols,
		Rows: s.rows,
	}

	s.state = StateStarting
	started := r.now()
	proc, err := r.spawner.Spawn(spec)
	r.metrics.RecordSpawn(started, restart, err)
	if err != nil {
		s.state = StateTerminated
		r.logger.Warn("Failed to start shell",
			zap.String("path", s.path),
			zap.String("shell", shell),
			zap.Error(err))
		return fmt.Errorf("spawn %s in %s: %w", shell, s.path, err)
	}

	s.generation++
	s.proc = proc
	s.Shell = shell
	s.StartedAt = started
	s.output = NewBuffer(r.bufferSize)
	s.liveDir = s.path
	s.exitCode = -1
	s.state = StateRunning
	if restart {
		s.restarts++
	}

	readerDone := make(chan struct{})
	r.wg.Add(2)
	go r.readOutput(s.ID, s.generation, proc, s.output, readerDone)
	go r.monitorProcess(s.ID, s.generation, proc, readerDone)

	return nil
}

// environ is the parent environment plus TERM, the login marker and any
// configured extras, sorted for stable output.
func (r *Registry) environ() []string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				env[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	env["TERM"] = r.term
	env["TERM_PROGRAM"] = paths.AppName
	maps.Copy(env, r.env)

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// readOutput copies shell output into buf and reports OSC 7 directory
// changes. Runs until the terminal is closed.
func (r *Registry) readOutput(sid id.SessionID, gen uint64, proc Process, buf *Buffer, done chan<- struct{}) {
	defer r.wg.Done()
	defer close(done)

	var tracker directoryTracker
	chunk := make([]byte, readChunkSize)
	for {
		n, err := proc.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			for _, dir := range tracker.Feed(chunk[:n]) {
				r.post(Event{
					Kind:       EventDirectoryChanged,
					SessionID:  sid,
					Generation: gen,
					Path:       dir,
					At:         r.now(),
				})
			}
		}
		if err != nil {
			if !isEndOfOutput(err) {
				r.logger.Debug("Terminal read failed",
					zap.String("session_id", sid.String()),
					zap.Error(err))
			}
			return
		}
	}
}

// monitorProcess waits for the shell to exit, lets the reader drain, then
// releases the terminal and reports the exit.
func (r *Registry) monitorProcess(sid id.SessionID, gen uint64, proc Process, readerDone <-chan struct{}) {
	defer r.wg.Done()

	code, err := proc.Wait()

	timer := time.NewTimer(drainTimeout)
	select {
	case <-readerDone:
	case <-timer.C:
	}
	timer.Stop()
	_ = proc.Close()

	r.post(Event{
		Kind:       EventExited,
		SessionID:  sid,
		Generation: gen,
		ExitCode:   code,
		Err:        err,
		At:         r.now(),
	})
}

// post stamps ev with an ID and delivers it unless the registry is
// shutting down.
func (r *Registry) post(ev Event) {
	ev.ID = id.NewEventID()
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

// Events returns the channel session goroutines report on. It is closed
// by Shutdown once every goroutine has finished.
func (r *Registry) Events() <-chan Event {
	return r.events
}

// Apply folds ev into registry state. It reports the affected session
// and whether anything changed; events from a previous generation of a
// session are dropped.
func (r *Registry) Apply(ev Event) (*Session, bool) {
	s, ok := r.byID[ev.SessionID]
	if !ok {
		return nil, false
	}
	if ev.Generation != s.generation {
		r.metrics.RecordStaleEvent()
		r.logger.Debug("Dropped stale session event",
			zap.String("session_id", s.ID.String()),
			zap.String("event_id", ev.ID.String()),
			zap.Stringer("kind", ev.Kind),
			zap.Uint64("event_generation", ev.Generation),
			zap.Uint64("generation", s.generation))
		return s, false
	}

	switch ev.Kind {
	case EventDirectoryChanged:
		return s, r.NotifyDirectoryChanged(s, ev.Path)
	case EventExited:
		changed := s.state != StateTerminated || s.exitCode != ev.ExitCode
		s.exitCode = ev.ExitCode
		s.proc = nil
		if s.state != StateTerminated {
			s.state = StateTerminated
			r.metrics.RecordExit(monitoring.CauseExited)
		}
		if changed {
			r.logger.Info("Session exited",
				zap.String("session_id", s.ID.String()),
				zap.String("event_id", ev.ID.String()),
				zap.String("path", s.path),
				zap.Int("exit_code", ev.ExitCode),
				zap.Error(ev.Err))
		}
		return s, changed
	}
	return s, false
}

// NotifyDirectoryChanged records that s's shell moved to path. It reports
// whether the live directory changed.
func (r *Registry) NotifyDirectoryChanged(s *Session, path string) bool {
	if s == nil || r.byID[s.ID] != s || path == "" {
		return false
	}
	clean := filepath.Clean(path)
	if clean == s.liveDir {
		return false
	}
	s.liveDir = clean
	r.metrics.RecordDirectoryChange()
	r.logger.Debug("Session directory changed",
		zap.String("session_id", s.ID.String()),
		zap.String("live_directory", clean))
	return true
}

// Terminate stops s's shell and marks it Terminated. The session stays
// registered and is restarted by the next Open of its path.
func (r *Registry) Terminate(s *Session) error {
	if s == nil || r.byID[s.ID] != s {
		return ErrSessionNotFound
	}
	if s.state == StateTerminated {
		return nil
	}

	if s.proc != nil {
		if err := s.proc.Terminate(); err != nil {
			r.logger.Warn("Failed to terminate shell",
				zap.String("session_id", s.ID.String()),
				zap.Error(err))
		}
	}
	s.proc = nil
	s.state = StateTerminated
	r.metrics.RecordExit(monitoring.CauseTerminated)

	r.logger.Info("Terminated session",
		zap.String("session_id", s.ID.String()),
		zap.String("path", s.path))
	return nil
}

// Close terminates s and removes it from the registry.
func (r *Registry) Close(s *Session) error {
	if err := r.Terminate(s); err != nil {
		return err
	}
	delete(r.byPath, s.path)
	delete(r.byID, s.ID)
	r.order = slices.DeleteFunc(r.order, func(o *Session) bool { return o == s })
	return nil
}

// Write sends input to s's shell.
func (r *Registry) Write(s *Session, p []byte) (int, error) {
	if s == nil || r.byID[s.ID] != s {
		return 0, ErrSessionNotFound
	}
	if s.state != StateRunning || s.proc == nil {
		return 0, ErrSessionClosed
	}
	return s.proc.Write(p)
}

// Read drains output buffered since the previous Read.
func (r *Registry) Read(s *Session) ([]byte, error) {
	if s == nil || r.byID[s.ID] != s {
		return nil, ErrSessionNotFound
	}
	if s.output == nil {
		return []byte{}, nil
	}
	return s.output.ReadAll(), nil
}

// Resize changes s's terminal size. The size is kept for restarts.
func (r *Registry) Resize(s *Session, cols, rows int) error {
	if s == nil || r.byID[s.ID] != s {
		return ErrSessionNotFound
	}
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("invalid terminal size %dx%d", cols, rows)
	}
	s.cols, s.rows = cols, rows
	if s.state != StateRunning || s.proc == nil {
		return nil
	}
	if err := s.proc.Resize(cols, rows); err != nil {
		return fmt.Errorf("failed to resize PTY: %w", err)
	}
	return nil
}

// Lookup returns the session opened for path, if any.
func (r *Registry) Lookup(path string) *Session {
	key, err := paths.Normalize(path)
	if err != nil {
		return nil
	}
	return r.byPath[key]
}

// Get returns the session with the given ID.
func (r *Registry) Get(sid id.SessionID) (*Session, error) {
	s, ok := r.byID[sid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sid)
	}
	return s, nil
}

// Sessions returns all sessions in the order they were created.
func (r *Registry) Sessions() []*Session {
	return slices.Clone(r.order)
}

// Len returns the number of registered sessions, running or not.
func (r *Registry) Len() int {
	return len(r.order)
}

// Shutdown terminates every running session, waits for their goroutines
// and closes the event channel. Later calls do nothing.
func (r *Registry) Shutdown() {
	if r.closed {
		return
	}
	r.closed = true

	for _, s := range r.order {
		if s.state == StateTerminated {
			continue
		}
		if err := r.Terminate(s); err != nil {
			r.logger.Warn("Failed to terminate session on shutdown",
				zap.String("session_id", s.ID.String()),
				zap.Error(err))
		}
	}

	close(r.done)
	r.wg.Wait()
	close(r.events)

	r.logger.Info("Session registry shut down", zap.Int("sessions", len(r.order)))
}

func isEndOfOutput(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, syscall.EIO)
}
