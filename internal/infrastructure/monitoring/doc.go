/*
Package monitoring provides Prometheus metrics for the tami core.

# Overview

Each component receives the shared *Metrics and records what it does:
folder loads, favorites persistence, and terminal session lifecycle.
Metrics live on a private registry so several workspaces (and tests)
can coexist in one process.

# Usage

	metrics := monitoring.NewMetrics()
	registry := terminal.NewRegistry(spawner, terminal.WithMetrics(metrics))

	http.Handle("/metrics", metrics.Handler())

All recording methods are safe on a nil *Metrics. Middleware records
requests served by the status listener.
*/
package monitoring
