package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/cardio-risk/internal/logger"
)

// RequestLogger logs one line per request after the handler chain has run.
// Successful health probes are logged at debug level.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		// Query strings are not logged; form submissions may carry patient data.
		fields := map[string]interface{}{
			"status":     status,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"route":      route,
			"bytes":      c.Writer.Size(),
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		entry := logger.WithContext(c.Request.Context()).WithFields(fields)

		switch {
		case status >= 500:
			entry.Error("server error")
		case status >= 400:
			entry.Warn("client error")
		case strings.HasPrefix(route, "/health"):
			entry.Debug("probe completed")
		default:
			entry.Info("request completed")
		}
	}
}
