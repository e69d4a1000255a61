package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/OldStager01/cardio-risk/internal/logger"
	"github.com/OldStager01/cardio-risk/pkg/validation"
)

const (
	TraceIDHeader = "X-Trace-ID"
	traceIDKey    = "trace_id"
	maxTraceIDLen = 128
)

// TraceID accepts a caller supplied trace id or mints one, echoes it in the
// response and stores it in the request context for logs and events.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := validation.SanitizeString(c.GetHeader(TraceIDHeader))
		if traceID == "" || len(traceID) > maxTraceIDLen {
			traceID = logger.NewTraceID()
		}

		c.Set(traceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), traceID))

		c.Next()
	}
}

func GetTraceID(c *gin.Context) string {
	if traceID, exists := c.Get(traceIDKey); exists {
		return traceID.(string)
	}
	return ""
}
