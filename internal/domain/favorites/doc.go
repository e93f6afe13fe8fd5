// Package favorites implements the ordered, persisted list of bookmarked
// paths shown above the folder tree.
//
// Invariants:
//   - at most one Favorite per path
//   - names are trimmed and never empty
//   - DateAdded is set once, on Add
//
// Every mutation replaces the list wholesale (copy-on-write) and then
// persists it synchronously, so readers never observe a half-applied
// change. Bad input (out-of-range index, duplicate path, blank name) is a
// no-op, never an error. Save failures are logged and otherwise ignored.
//
// A missing or unreadable favorites file loads as an empty list; no
// partial recovery is attempted.
package favorites
