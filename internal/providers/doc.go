// Package providers groups the adapters tami uses to talk to the
// operating system: terminal runs login shells on pseudo-terminals and
// viewer renders file previews.
package providers
