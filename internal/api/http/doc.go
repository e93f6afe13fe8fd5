// Package http serves the read-only status API.
//
// Endpoints:
//   - GET /            service identity
//   - GET /health      liveness, uptime and favorites count
//   - GET /favorites   the favorites list in display order
//   - GET /favorites/:index
//   - GET /metrics     Prometheus exposition
//
// Sessions are not exposed: their state belongs to the control goroutine
// and is never read from request handlers.
package http
