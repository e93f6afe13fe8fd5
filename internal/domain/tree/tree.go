package tree

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/GriffinCanCode/tami/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/tami/internal/shared/paths"
)

// Tree owns the root node and everything loaded beneath it.
type Tree struct {
	root    *Node
	sorter  sorter
	logger  *zap.Logger
	metrics *monitoring.Metrics

	readDir func(string) ([]os.DirEntry, error)
	stat    func(string) (fs.FileInfo, error)
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tree) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithMetrics records listings on m.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(t *Tree) { t.metrics = m }
}

// WithLocale sets the collation language for name ordering.
func WithLocale(tag language.Tag) Option {
	return func(t *Tree) { t.sorter = newSorter(tag) }
}

// New creates a tree rooted at root. Nothing is listed until
// LoadChildren is called.
func New(root string, opts ...Option) *Tree {
	t := &Tree{
		sorter:  newSorter(language.Und),
		logger:  zap.NewNop(),
		readDir: os.ReadDir,
		stat:    os.Stat,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.SetRoot(root)
	return t
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.root
}

// SetRoot discards every cached node and starts over at path.
func (t *Tree) SetRoot(path string) {
	clean, err := paths.Normalize(path)
	if err != nil {
		clean = filepath.Clean(path)
	}
	isDir := false
	if info, err := t.stat(clean); err == nil {
		isDir = info.IsDir()
	}
	t.root = newNode(clean, isDir)
}

// IsExpandable reports whether the UI should offer to expand n. It does
// not touch the filesystem, so collapsed folders never trigger listing
// (or the permission prompts that come with it).
func (t *Tree) IsExpandable(n *Node) bool {
	return n != nil && n.isDir
}

// LoadChildren lists n's directory once. Later calls, and calls on files,
// do nothing. A failed listing yields an empty child list.
func (t *Tree) LoadChildren(n *Node) {
	if n == nil || !n.isDir || n.children != nil {
		return
	}

	entries, err := t.readDir(n.path)
	t.metrics.RecordTreeLoad(err)
	if err != nil {
		t.logger.Debug("Directory listing failed",
			zap.String("path", n.path),
			zap.Error(err))
		n.children = []*Node{}
		return
	}

	children := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if paths.IsHidden(name) {
			continue
		}
		childPath := filepath.Join(n.path, name)
		children = append(children, newNode(childPath, t.isDirEntry(childPath, entry)))
	}
	t.sorter.sort(children)
	n.children = children
}

// isDirEntry classifies an entry, following symlinks so a link to a
// directory is expandable. Dangling links count as files.
func (t *Tree) isDirEntry(path string, entry os.DirEntry) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.IsDir()
	}
	info, err := t.stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Reveal loads the ancestors of path, top down, and returns its node. It
// returns nil when path is outside the root, hidden, or missing.
func (t *Tree) Reveal(path string) *Node {
	target, err := paths.Normalize(path)
	if err != nil || !paths.Within(t.root.path, target) {
		return nil
	}

	node := t.root
	rel, err := filepath.Rel(t.root.path, target)
	if err != nil || rel == "." {
		return node
	}
	for _, segment := range strings.Split(rel, string(filepath.Separator)) {
		t.LoadChildren(node)
		node = node.Child(segment)
		if node == nil {
			return nil
		}
	}
	return node
}
