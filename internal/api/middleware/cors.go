package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig defines CORS configuration options.
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
	MaxAge       time.Duration
}

// DefaultCORSConfig allows any origin to read the status endpoints.
func DefaultCORSConfig() CORSConfig {
	return CORSConfigFor([]string{"*"})
}

// CORSConfigFor returns a read-only configuration for origins.
func CORSConfigFor(origins []string) CORSConfig {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Accept",
			"Cache-Control",
			"Origin",
		},
		MaxAge: 12 * time.Hour,
	}
}

// Validate reports origins gin-contrib/cors would reject.
func (cfg CORSConfig) Validate() error {
	return cfg.library().Validate()
}

// CORS creates a CORS middleware with the provided configuration. It
// panics on an invalid configuration; call Validate first for user input.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	return cors.New(cfg.library())
}

func (cfg CORSConfig) library() cors.Config {
	return cors.Config{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: cfg.AllowMethods,
		AllowHeaders: cfg.AllowHeaders,
		MaxAge:       cfg.MaxAge,
	}
}
