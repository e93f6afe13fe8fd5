// Package middleware provides the Gin middleware used by the status
// listener.
//
// Middleware stack includes:
//   - CORS: read-only cross-origin access for local dashboards
//   - RateLimit: per-IP token bucket with idle client eviction
//   - Logger: request logging through zap
//
// Example Usage:
//
//	router.Use(middleware.Logger(logger))
//	router.Use(middleware.CORS(middleware.CORSConfigFor(cfg.Status.AllowOrigins)))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
