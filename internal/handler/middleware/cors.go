package middleware

import (
	"log/slog"
	"slices"

	"proximity-pay/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware builds the CORS policy from CORS_* settings. Browser
// clients must be able to send Idempotency-Key on settle and read
// X-Request-ID back, so both are added when the configuration omits them.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     withHeader(cfg.AllowHeaders, IdempotencyKeyHeader),
		ExposeHeaders:    withHeader(cfg.ExposeHeaders, RequestIDHeader),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	slog.Info("cors policy loaded", "origins", corsCfg.AllowOrigins, "allow_headers", corsCfg.AllowHeaders)
	return cors.New(corsCfg)
}

func withHeader(headers []string, name string) []string {
	if slices.Contains(headers, name) {
		return headers
	}
	return append(slices.Clone(headers), name)
}
