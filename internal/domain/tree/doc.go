// Package tree implements the lazily materialised folder tree shown in the
// sidebar.
//
// A directory's children are listed the first time they are asked for and
// cached from then on; the tree never watches the filesystem. Listing
// failures (permission denied, directory removed) leave an empty, loaded
// child list so the tree stays navigable.
//
// Sibling order: directories before files, then a case-insensitive,
// locale-aware collation of names. Hidden entries are skipped.
//
// A Tree is not safe for concurrent use; callers drive it from a single
// control goroutine.
package tree
