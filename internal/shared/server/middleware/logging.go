package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"recommender-backend/internal/shared/metrics"
	"recommender-backend/internal/shared/telemetry"
)

// Logging emits a structured log and a request counter per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		resultKind, _ := c.Get("resultKind")
		metrics.IncHTTPRequest(c.Request.Method, c.FullPath(), status)
		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_id":   ClientIDFromContext(c),
			"result_kind": resultKind,
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
