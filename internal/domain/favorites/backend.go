package favorites

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Backend reads and writes the serialized favorites list.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// FileBackend stores favorites in a single file. Writes go to a temp
// file in the same directory which is synced and renamed over the
// target, so a crash leaves either the old or the new list.
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend for path. The parent directory is
// created on first write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the file location.
func (b *FileBackend) Path() string {
	return b.path
}

// Read returns the file contents.
func (b *FileBackend) Read() ([]byte, error) {
	return os.ReadFile(b.path)
}

// Write atomically replaces the file contents.
func (b *FileBackend) Write(data []byte) (err error) {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("replace %s: %w", b.path, err)
	}

	// Persist the rename itself; not all filesystems support this.
	if d, derr := os.Open(dir); derr == nil {
		_ = d.Sync()
		d.Close()
	}
	return nil
}

// MemoryBackend keeps favorites in memory. WriteErr, when set, is
// returned by Write to simulate an unwritable store.
type MemoryBackend struct {
	mu       sync.Mutex
	data     []byte
	writes   int
	WriteErr error
}

// NewMemoryBackend creates a backend pre-loaded with data (nil means no
// file yet).
func NewMemoryBackend(data []byte) *MemoryBackend {
	return &MemoryBackend{data: data}
}

// Read returns the stored bytes, or fs.ErrNotExist if nothing was written.
func (b *MemoryBackend) Read() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.data == nil {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), b.data...), nil
}

// Write stores a copy of data.
func (b *MemoryBackend) Write(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.WriteErr != nil {
		return b.WriteErr
	}
	b.data = append([]byte(nil), data...)
	b.writes++
	return nil
}

// Writes returns the number of successful writes.
func (b *MemoryBackend) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
