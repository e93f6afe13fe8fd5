package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/tami/internal/domain/favorites"
	"github.com/GriffinCanCode/tami/internal/domain/tree"
	"github.com/GriffinCanCode/tami/internal/providers/terminal"
	"github.com/GriffinCanCode/tami/internal/shared/paths"
)

var (
	// ErrPathNotFound is returned when an opened path does not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrFavoriteNotFound is returned for favorite indices out of range.
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// Viewer shows regular files.
type Viewer interface {
	Open(path string) error
}

// ResultKind says how an opened path was handled.
type ResultKind int

const (
	// ResultSessionCreated means a new terminal session was started.
	ResultSessionCreated ResultKind = iota
	// ResultSessionFocused means an existing session was returned, or
	// restarted in place.
	ResultSessionFocused
	// ResultViewer means the file was handed to the viewer.
	ResultViewer
)

func (k ResultKind) String() string {
	switch k {
	case ResultSessionCreated:
		return "session_created"
	case ResultSessionFocused:
		return "session_focused"
	case ResultViewer:
		return "viewer"
	default:
		return "unknown"
	}
}

// Result describes an OpenPath outcome. Session is nil for ResultViewer.
type Result struct {
	Kind    ResultKind
	Path    string
	Session *terminal.Session
}

// EventHandler receives session events that changed a session.
type EventHandler func(ev terminal.Event, s *terminal.Session)

// Workspace routes user actions to the tree, favorites and sessions.
type Workspace struct {
	tree      *tree.Tree
	favorites *favorites.Store
	sessions  *terminal.Registry
	viewer    Viewer
	logger    *zap.Logger
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Workspace) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New assembles a workspace from its collaborators.
func New(t *tree.Tree, favs *favorites.Store, sessions *terminal.Registry, viewer Viewer, opts ...Option) *Workspace {
	w := &Workspace{
		tree:      t,
		favorites: favs,
		sessions:  sessions,
		viewer:    viewer,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workspace) Tree() *tree.Tree             { return w.tree }
func (w *Workspace) Favorites() *favorites.Store  { return w.favorites }
func (w *Workspace) Sessions() *terminal.Registry { return w.sessions }

// OpenPath opens a directory in a terminal session and a file in the
// viewer.
func (w *Workspace) OpenPath(path string) (Result, error) {
	clean, err := paths.Normalize(path)
	if err != nil {
		return Result{}, err
	}

	info, err := os.Stat(clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("%w: %s", ErrPathNotFound, clean)
		}
		return Result{}, fmt.Errorf("failed to stat %s: %w", clean, err)
	}

	if !info.IsDir() {
		if w.viewer == nil {
			return Result{}, fmt.Errorf("no viewer for %s", clean)
		}
		if err := w.viewer.Open(clean); err != nil {
			return Result{}, fmt.Errorf("failed to view %s: %w", clean, err)
		}
		return Result{Kind: ResultViewer, Path: clean}, nil
	}

	s, created, err := w.sessions.Open(clean)
	if err != nil {
		return Result{}, err
	}

	kind := ResultSessionFocused
	if created {
		kind = ResultSessionCreated
	}
	w.logger.Debug("Opened directory",
		zap.String("path", clean),
		zap.Stringer("result", kind),
		zap.String("session_id", s.ID.String()))
	return Result{Kind: kind, Path: clean, Session: s}, nil
}

// OpenHome opens a session at the tree root.
func (w *Workspace) OpenHome() (Result, error) {
	return w.OpenPath(w.tree.Root().Path())
}

// OpenFavorite opens the favorite at index i.
func (w *Workspace) OpenFavorite(i int) (Result, error) {
	f, ok := w.favorites.At(i)
	if !ok {
		return Result{}, fmt.Errorf("%w: index %d", ErrFavoriteNotFound, i)
	}
	return w.OpenPath(f.Path)
}

// AddFavorite adds the selected tree node to favorites. It reports
// whether the list changed.
func (w *Workspace) AddFavorite(n *tree.Node) bool {
	if n == nil {
		return false
	}
	return w.favorites.Add(n.Path())
}

// AddFavorites adds every selected node and returns how many were new.
func (w *Workspace) AddFavorites(nodes []*tree.Node) int {
	pathList := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			pathList = append(pathList, n.Path())
		}
	}
	return w.favorites.AddAll(pathList)
}

// RevealFavorite expands the tree down to favorite i and returns its node,
// or nil when it is outside the root or gone.
func (w *Workspace) RevealFavorite(i int) *tree.Node {
	f, ok := w.favorites.At(i)
	if !ok {
		return nil
	}
	return w.tree.Reveal(f.Path)
}

// RevealSession expands the tree down to the session's live directory.
func (w *Workspace) RevealSession(s *terminal.Session) *tree.Node {
	if s == nil {
		return nil
	}
	return w.tree.Reveal(s.LiveDirectory())
}

// Drain applies every pending session event without blocking and returns
// those that changed a session.
func (w *Workspace) Drain() []terminal.Event {
	var applied []terminal.Event
	for {
		select {
		case ev, ok := <-w.sessions.Events():
			if !ok {
				return applied
			}
			if _, changed := w.sessions.Apply(ev); changed {
				applied = append(applied, ev)
			}
		default:
			return applied
		}
	}
}

// Run applies session events until ctx is done or the registry shuts
// down, calling handler for each event that changed a session.
func (w *Workspace) Run(ctx context.Context, handler EventHandler) error {
	events := w.sessions.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s, changed := w.sessions.Apply(ev)
			if changed && handler != nil {
				handler(ev, s)
			}
		}
	}
}

// Close flushes favorites and shuts every session down.
func (w *Workspace) Close() error {
	err := w.favorites.Save()
	if err != nil {
		w.logger.Warn("Failed to save favorites on close", zap.Error(err))
	}
	w.sessions.Shutdown()
	return err
}
