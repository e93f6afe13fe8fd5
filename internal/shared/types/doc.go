// Package types provides the small shared vocabulary between the tami core
// and its UI collaborators.
//
// Folder tree nodes, favorites and terminal sessions are distinct concrete
// types. Anything a list, outline or tab strip needs to draw a row is
// reached through Row instead of inspecting the dynamic type.
package types
