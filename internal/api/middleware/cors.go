package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig defines CORS configuration options.
type CORSConfig struct {
	AllowOrigins []string // empty allows any origin
	AllowMethods []string
	AllowHeaders []string
	MaxAge       time.Duration
}

// DefaultCORSConfig allows any origin. The server has no credentials to
// protect, so cookies are never allowed.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Content-Length",
			"Accept",
			"Origin",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}
}

// CORS creates a CORS middleware with the provided configuration.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: len(cfg.AllowOrigins) == 0,
		AllowOrigins:    cfg.AllowOrigins,
		AllowMethods:    cfg.AllowMethods,
		AllowHeaders:    cfg.AllowHeaders,
		ExposeHeaders:   []string{"X-Request-ID"},
		MaxAge:          cfg.MaxAge,
	})
}
