package favorites

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/tami/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/tami/internal/shared/paths"
)

var errEmptyPath = errors.New("favorite record without path")

// Store is the ordered favorites list.
type Store struct {
	mu      sync.RWMutex
	items   []Favorite
	backend Backend

	logger  *zap.Logger
	metrics *monitoring.Metrics
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records saves and loads on m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock overrides the time source used for DateAdded.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a store on backend and loads whatever it holds.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		items:   []Favorite{},
		backend: backend,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s
}

// List returns a snapshot of the favorites in order.
func (s *Store) List() []Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// At returns the favorite at index i.
func (s *Store) At(i int) (Favorite, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		return Favorite{}, false
	}
	return s.items[i], true
}

// IndexOf returns the index of the favorite for path, or -1.
func (s *Store) IndexOf(path string) int {
	key := normalize(path)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.items, key)
}

// Contains reports whether path is a favorite.
func (s *Store) Contains(path string) bool {
	return s.IndexOf(path) >= 0
}

// Add appends a favorite for path named after its last segment. A path
// that is already present is ignored. It reports whether the list
// changed.
func (s *Store) Add(path string) bool {
	return s.AddAll([]string{path}) > 0
}

// AddAll adds several paths in order with a single save, skipping
// duplicates. It returns how many were added.
func (s *Store) AddAll(pathList []string) int {
	return s.mutate(func(items []Favorite) ([]Favorite, int) {
		added := 0
		now := s.now().UTC().Round(0)
		for _, p := range pathList {
			key := normalize(p)
			if key == "" || indexOf(items, key) >= 0 {
				continue
			}
			items = append(items, newFavorite(key, now))
			added++
		}
		return items, added
	})
}

// RemoveAt deletes the favorite at index i. Out-of-range indices are
// ignored.
func (s *Store) RemoveAt(i int) bool {
	return s.mutate(func(items []Favorite) ([]Favorite, int) {
		if i < 0 || i >= len(items) {
			return items, 0
		}
		return slices.Delete(items, i, i+1), 1
	}) > 0
}

// RenameAt sets the display name of the favorite at index i. The name is
// trimmed; blank names and out-of-range indices are ignored.
func (s *Store) RenameAt(i int, name string) bool {
	trimmed := strings.TrimSpace(name)
	return s.mutate(func(items []Favorite) ([]Favorite, int) {
		if trimmed == "" || i < 0 || i >= len(items) {
			return items, 0
		}
		items[i].Name = trimmed
		return items, 1
	}) > 0
}

// Move lifts the favorites at indices out of the list and reinserts them,
// in their original relative order, as one block at destination. The
// destination is given in terms of the list before removal and is
// shifted down by the number of moved rows above it, then clamped:
//
//	dest' = clamp(destination - |{i in indices : i < destination}|, 0, remaining)
//
// Invalid and duplicate indices are ignored.
func (s *Store) Move(indices []int, destination int) bool {
	return s.mutate(func(items []Favorite) ([]Favorite, int) {
		selected := make(map[int]bool, len(indices))
		for _, i := range indices {
			if i >= 0 && i < len(items) {
				selected[i] = true
			}
		}
		if len(selected) == 0 {
			return items, 0
		}

		moving := make([]Favorite, 0, len(selected))
		remaining := make([]Favorite, 0, len(items)-len(selected))
		above := 0
		for i, f := range items {
			if !selected[i] {
				remaining = append(remaining, f)
				continue
			}
			moving = append(moving, f)
			if i < destination {
				above++
			}
		}

		at := max(0, min(destination-above, len(remaining)))
		return slices.Insert(remaining, at, moving...), len(moving)
	}) > 0
}

// mutate applies fn to a private copy of the list. When fn reports a
// change the copy replaces the list and is persisted before the lock is
// released.
func (s *Store) mutate(fn func([]Favorite) ([]Favorite, int)) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := fn(slices.Clone(s.items))
	if changed == 0 {
		return 0
	}
	s.items = next
	if err := s.saveLocked(); err != nil {
		s.logger.Warn("Failed to save favorites", zap.Error(err))
	}
	return changed
}

// Save writes the list to the backend. Mutations save on their own; this
// is for an explicit flush, e.g. on quit.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked()
}

func (s *Store) saveLocked() error {
	data, err := sonic.ConfigStd.MarshalIndent(s.items, "", "  ")
	if err == nil {
		err = s.backend.Write(data)
	}
	s.metrics.RecordFavoritesSave(len(s.items), err)
	if err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

// Load replaces the list with the backend's contents. A missing file, a
// decode error or any invalid record resets the list to empty.
func (s *Store) Load() {
	items, err := s.read()

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case err == nil:
	case isNotExist(err):
		s.logger.Debug("No favorites file, starting empty")
	default:
		s.logger.Warn("Unreadable favorites, starting empty", zap.Error(err))
	}
	if err != nil {
		items = []Favorite{}
	}
	s.items = items
	s.metrics.RecordFavoritesLoad(len(items), err != nil)
}

func (s *Store) read() ([]Favorite, error) {
	data, err := s.backend.Read()
	if err != nil {
		return nil, err
	}

	var decoded []Favorite
	if err := sonic.ConfigStd.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decode favorites: %w", err)
	}

	items := make([]Favorite, 0, len(decoded))
	for _, f := range decoded {
		if strings.TrimSpace(f.Path) == "" {
			return nil, errEmptyPath
		}
		key, err := paths.Normalize(f.Path)
		if err != nil {
			return nil, fmt.Errorf("favorite %q: %w", f.Path, err)
		}
		f.Path = key
		if indexOf(items, f.Path) >= 0 {
			continue
		}
		if f.Name = strings.TrimSpace(f.Name); f.Name == "" {
			f.Name = paths.LastSegment(f.Path)
		}
		items = append(items, f)
	}
	return items, nil
}

func indexOf(items []Favorite, path string) int {
	return slices.IndexFunc(items, func(f Favorite) bool { return f.Path == path })
}

func normalize(path string) string {
	key, err := paths.Normalize(path)
	if err != nil {
		return ""
	}
	return key
}
