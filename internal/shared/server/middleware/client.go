package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const clientIDKey = "clientId"

// ClientID identifies the caller by IP for rate limiting and usage counting.
// End users are not authenticated.
func ClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIDKey, strings.TrimSpace(c.ClientIP()))
		c.Next()
	}
}

// ClientIDFromContext returns the caller identity set by ClientID, falling back to the client IP.
func ClientIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	if id := c.GetString(clientIDKey); id != "" {
		return id
	}
	return strings.TrimSpace(c.ClientIP())
}
