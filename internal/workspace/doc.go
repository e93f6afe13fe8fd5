// Package workspace ties the folder tree, the favorites list and the
// session registry together.
//
// Directories open as terminal sessions and files go to the viewer.
// Favorites and sessions are independent: a favorite needs no session and
// a session needs no favorite.
//
// A Workspace must be driven from one goroutine. Session events are
// applied on that goroutine with Drain or Run.
package workspace
