package favorites

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/GriffinCanCode/tami/internal/shared/paths"
	"github.com/GriffinCanCode/tami/internal/shared/types"
)

func fixedClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestStore(t *testing.T, backend Backend) *Store {
	t.Helper()
	return New(backend, WithClock(fixedClock()), WithLogger(zaptest.NewLogger(t)))
}

func pathsOf(items []Favorite) []string {
	out := make([]string, len(items))
	for i, f := range items {
		out[i] = f.Path
	}
	return out
}

func seeded(t *testing.T, list ...string) (*Store, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend(nil)
	s := newTestStore(t, backend)
	for _, p := range list {
		require.True(t, s.Add(p))
	}
	return s, backend
}

func TestAdd(t *testing.T) {
	s, backend := seeded(t)

	assert.True(t, s.Add("/home/user/projects"))

	f, ok := s.At(0)
	require.True(t, ok)
	assert.Equal(t, "projects", f.Name)
	assert.Equal(t, "/home/user/projects", f.Path)
	assert.False(t, f.DateAdded.IsZero())
	assert.Equal(t, 1, backend.Writes(), "mutations persist synchronously")
}

func TestAddDeduplicatesPaths(t *testing.T) {
	s, backend := seeded(t, "/a", "/b")

	assert.False(t, s.Add("/a"))
	assert.False(t, s.Add("/b/"), "paths are compared after cleaning")
	assert.False(t, s.Add("/a/../b"))

	assert.Equal(t, []string{"/a", "/b"}, pathsOf(s.List()))
	assert.Equal(t, 2, backend.Writes(), "no-op adds do not save")
}

func TestAddNeverDuplicatesUnderAnySequence(t *testing.T) {
	s, _ := seeded(t)
	sequence := []string{"/x", "/y", "/x", "/z", "/y", "/x/", "/z/../x", "/w"}

	for _, p := range sequence {
		s.Add(p)
		seen := map[string]bool{}
		for _, f := range s.List() {
			require.False(t, seen[f.Path], "duplicate %s after adding %s", f.Path, p)
			seen[f.Path] = true
		}
	}
	assert.Equal(t, []string{"/x", "/y", "/z", "/w"}, pathsOf(s.List()))
}

func TestAddAll(t *testing.T) {
	s, backend := seeded(t, "/a")

	added := s.AddAll([]string{"/b", "/a", "/c", "/b"})

	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"/a", "/b", "/c"}, pathsOf(s.List()))
	assert.Equal(t, 2, backend.Writes())
}

func TestRemoveAt(t *testing.T) {
	s, _ := seeded(t, "/a", "/b", "/c")

	assert.True(t, s.RemoveAt(1))
	assert.Equal(t, []string{"/a", "/c"}, pathsOf(s.List()))

	assert.False(t, s.RemoveAt(-1))
	assert.False(t, s.RemoveAt(2))
	assert.Equal(t, []string{"/a", "/c"}, pathsOf(s.List()))
}

func TestRenameAt(t *testing.T) {
	s, _ := seeded(t, "/a", "/b")

	assert.True(t, s.RenameAt(0, "  Source Code \n"))
	f, _ := s.At(0)
	assert.Equal(t, "Source Code", f.Name)
	assert.Equal(t, "/a", f.Path, "rename never touches the path")
}

func TestRenameAtIgnoresBadInput(t *testing.T) {
	s, backend := seeded(t, "/a")
	writes := backend.Writes()

	assert.False(t, s.RenameAt(0, "   "))
	assert.False(t, s.RenameAt(0, "\t\n"))
	assert.False(t, s.RenameAt(5, "name"))

	f, _ := s.At(0)
	assert.Equal(t, "a", f.Name)
	assert.Equal(t, writes, backend.Writes())
}

func TestMove(t *testing.T) {
	tests := []struct {
		name        string
		indices     []int
		destination int
		want        []string
	}{
		{
			// dest' = clamp(1 - 1, 0, 1) = 0
			name:        "non-contiguous block before remaining",
			indices:     []int{0, 2},
			destination: 1,
			want:        []string{"A", "C", "B"},
		},
		{
			name:        "drag last row to top",
			indices:     []int{2},
			destination: 0,
			want:        []string{"C", "A", "B"},
		},
		{
			name:        "drag first row to end",
			indices:     []int{0},
			destination: 3,
			want:        []string{"B", "C", "A"},
		},
		{
			name:        "drop on own position",
			indices:     []int{1},
			destination: 1,
			want:        []string{"A", "B", "C"},
		},
		{
			name:        "destination past end is clamped",
			indices:     []int{0},
			destination: 99,
			want:        []string{"B", "C", "A"},
		},
		{
			name:        "negative destination is clamped",
			indices:     []int{2},
			destination: -4,
			want:        []string{"C", "A", "B"},
		},
		{
			name:        "unsorted indices keep list order",
			indices:     []int{2, 0},
			destination: 3,
			want:        []string{"B", "A", "C"},
		},
		{
			name:        "invalid and duplicate indices ignored",
			indices:     []int{7, 1, 1, -2},
			destination: 0,
			want:        []string{"B", "A", "C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := seeded(t, "/A", "/B", "/C")

			assert.True(t, s.Move(tt.indices, tt.destination))
			assert.Equal(t, tt.want, types.Labels(s.List()))
		})
	}
}

func TestMoveWithNoValidIndicesIsNoop(t *testing.T) {
	s, backend := seeded(t, "/A", "/B")
	writes := backend.Writes()

	assert.False(t, s.Move(nil, 0))
	assert.False(t, s.Move([]int{5, -1}, 0))
	assert.Equal(t, writes, backend.Writes())
	assert.Equal(t, []string{"A", "B"}, types.Labels(s.List()))
}

func TestMovePreservesMetadata(t *testing.T) {
	s, _ := seeded(t, "/A", "/B", "/C")
	s.RenameAt(2, "Charlie")
	before := s.List()

	s.Move([]int{2}, 0)

	after := s.List()
	assert.Equal(t, before[2], after[0])
	assert.ElementsMatch(t, before, after)
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 100} {
		t.Run(fmt.Sprintf("%d items", n), func(t *testing.T) {
			backend := NewFileBackend(filepath.Join(t.TempDir(), "Tami", "favorites.json"))
			s := newTestStore(t, backend)
			for i := 0; i < n; i++ {
				s.Add(fmt.Sprintf("/data/project-%03d", i))
			}
			if n > 0 {
				s.RenameAt(0, "First")
				s.Move([]int{0}, n)
			}
			require.NoError(t, s.Save())

			reloaded := newTestStore(t, backend)

			assert.Equal(t, s.List(), reloaded.List())
			assert.Len(t, reloaded.List(), n)
		})
	}
}

func TestSaveWritesJSONArray(t *testing.T) {
	backend := NewMemoryBackend(nil)
	s := newTestStore(t, backend)
	require.NoError(t, s.Save())

	data, err := backend.Read()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	s.Add("/srv/www")
	data, _ = backend.Read()
	assert.JSONEq(t, `[{"name":"www","path":"/srv/www","dateAdded":"2026-03-14T09:26:54.589793238Z"}]`, string(data))
}

func TestLoadMissingFile(t *testing.T) {
	s := newTestStore(t, NewFileBackend(filepath.Join(t.TempDir(), "none.json")))
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.List())
}

func TestLoadCorruptFileResetsToEmpty(t *testing.T) {
	tests := map[string]string{
		"truncated":   `[{"name":"a","path":"/a"`,
		"wrong shape": `{"favorites":[]}`,
		"bad date":    `[{"name":"a","path":"/a","dateAdded":"yesterday"}]`,
		"bool date":   `[{"name":"a","path":"/a","dateAdded":true}]`,
		"empty path":  `[{"name":"a","path":"/a"},{"name":"b","path":""}]`,
		"garbage":     "\x00\x01\x02",
	}

	for name, contents := range tests {
		t.Run(name, func(t *testing.T) {
			s := newTestStore(t, NewMemoryBackend([]byte(contents)))
			assert.Equal(t, 0, s.Len(), "no partial recovery")
		})
	}
}

func TestLoadToleratesMissingFields(t *testing.T) {
	data := `[
		{"path": "/home/user/music"},
		{"name": "  Work ", "path": "/home/user/work", "dateAdded": "2025-01-02T03:04:05Z", "color": "blue"},
		{"name": "dup", "path": "/home/user/music/"}
	]`

	s := newTestStore(t, NewMemoryBackend([]byte(data)))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "music", list[0].Name)
	assert.True(t, list[0].DateAdded.IsZero())
	assert.Equal(t, "Work", list[1].Name)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), list[1].DateAdded.UTC())
}

func TestLoadNormalizesPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())
	cwd, err := os.Getwd()
	require.NoError(t, err)

	data := fmt.Sprintf(`[
		{"path": "rel/dir"},
		{"path": %q},
		{"path": "~/src"},
		{"path": %q}
	]`, filepath.Join(cwd, "rel", "dir"), filepath.Join(home, "src"))

	s := newTestStore(t, NewMemoryBackend([]byte(data)))

	rel, err := paths.Normalize("rel/dir")
	require.NoError(t, err)
	src, err := paths.Normalize("~/src")
	require.NoError(t, err)

	assert.Equal(t, []string{rel, src}, pathsOf(s.List()))
	assert.True(t, s.Contains("rel/dir"))
	assert.True(t, s.Contains(filepath.Join(home, "src")))
	assert.False(t, s.Add("~/src"), "already present")
	assert.Equal(t, 2, s.Len())
}

func TestLoadNumericDateAdded(t *testing.T) {
	data := `[
		{"name": "a", "path": "/a", "dateAdded": 0},
		{"name": "b", "path": "/b", "dateAdded": 757382400.5}
	]`

	s := newTestStore(t, NewMemoryBackend([]byte(data)))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), list[0].DateAdded.UTC())
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 500_000_000, time.UTC), list[1].DateAdded.UTC())

	// Saving rewrites dates as RFC 3339.
	require.NoError(t, s.Save())
	reloaded := newTestStore(t, s.backend).List()
	require.Len(t, reloaded, 2)
	for i := range list {
		assert.True(t, list[i].DateAdded.Equal(reloaded[i].DateAdded), list[i].Path)
	}
}

func TestSaveFailureIsLoggedNotFatal(t *testing.T) {
	backend := NewMemoryBackend(nil)
	backend.WriteErr = errors.New("disk full")
	s := newTestStore(t, backend)

	assert.True(t, s.Add("/a"), "in-memory change stands")
	assert.Equal(t, 1, s.Len())
	assert.Error(t, s.Save())
}

func TestFileBackendReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "favorites.json")
	backend := NewFileBackend(path)

	require.NoError(t, backend.Write([]byte("one")))
	require.NoError(t, backend.Write([]byte("two")))

	data, err := backend.Read()
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are renamed away")
}

func TestFileBackendUnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	backend := NewFileBackend(filepath.Join(blocker, "favorites.json"))
	assert.Error(t, backend.Write([]byte("[]")))
}

func TestConcurrentReadersSeeWholeLists(t *testing.T) {
	s, _ := seeded(t, "/A", "/B", "/C", "/D")

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				list := s.List()
				if len(list) != 4 {
					t.Errorf("observed partial list of %d", len(list))
					return
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		s.Move([]int{i % 4}, (i*3)%5)
	}
	close(stop)
	wg.Wait()
}

func TestFavoriteRow(t *testing.T) {
	var row types.Row = Favorite{Name: "Docs", Path: "/docs"}
	assert.Equal(t, "Docs", row.Label())
	assert.Equal(t, "/docs", row.Location())
	assert.Equal(t, types.IconFavorite, row.Icon())
}
