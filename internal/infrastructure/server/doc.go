// Package server wires tami together.
//
// New builds the logger, metrics, folder tree, favorites store, terminal
// registry, viewer and workspace from a config.Config. When
// Status.Addr is set it also prepares a read-only gin listener with:
//
//	GET /                 service identity
//	GET /health           uptime and favorites count
//	GET /favorites        favorites in order
//	GET /favorites/:index one favorite
//	GET /metrics          Prometheus exposition
//
// Start binds the listener; Close stops it and then closes the workspace.
package server
