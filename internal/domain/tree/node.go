package tree

import (
	"github.com/GriffinCanCode/tami/internal/shared/paths"
	"github.com/GriffinCanCode/tami/internal/shared/types"
)

// Node is one entry, file or directory, in the folder tree.
type Node struct {
	path  string
	name  string
	isDir bool

	// nil until loaded; loaded-empty is a non-nil empty slice
	children []*Node
}

func newNode(path string, isDir bool) *Node {
	return &Node{
		path:  path,
		name:  paths.LastSegment(path),
		isDir: isDir,
	}
}

// Path is the absolute path, the node's identity.
func (n *Node) Path() string { return n.path }

// Name is the last path segment.
func (n *Node) Name() string { return n.name }

// IsDirectory reports whether the node was a directory when created.
func (n *Node) IsDirectory() bool { return n.isDir }

// Children returns the loaded children, or nil if not loaded yet. The
// slice is owned by the tree and must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Loaded reports whether children have been listed.
func (n *Node) Loaded() bool { return n.children != nil }

// Child returns the loaded child with the given name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Label implements types.Row.
func (n *Node) Label() string { return n.name }

// Location implements types.Row.
func (n *Node) Location() string { return n.path }

// Icon implements types.Row.
func (n *Node) Icon() types.Icon {
	if n.isDir {
		return types.IconFolder
	}
	return types.IconFile
}

var _ types.Row = (*Node)(nil)
