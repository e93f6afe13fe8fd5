// Package paths provides the standard filesystem locations tami uses and
// small helpers for normalising user-supplied paths.
//
// Per-user state lives in the platform application-support directory:
//
//	macOS:  ~/Library/Application Support/Tami
//	Linux:  $XDG_CONFIG_HOME/Tami (usually ~/.config/Tami)
package paths
