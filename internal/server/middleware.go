package server

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"homebase/internal/logging"
)

const (
	headerRequestID = "X-Request-Id"
	headerTraceID   = "X-Trace-Id"
)

// CORS allows the configured origins. A "*" entry allows any origin.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-Requested-With", headerRequestID},
		ExposeHeaders: []string{headerRequestID, headerTraceID},
		MaxAge:       12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			break
		}
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// RequestContext tags each request with a request id and, when tracing is
// active, the trace id of its span.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(headerRequestID))
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set(headerRequestID, reqID)

		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Set("trace_id", traceID)
			c.Writer.Header().Set(headerTraceID, traceID)
		}
		c.Next()
	}
}

// RequestLogger logs one line per request, at a level that follows the status.
func RequestLogger(log *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if id := c.GetString("request_id"); id != "" {
			fields = append(fields, "request_id", id)
		}
		if id := c.GetString("trace_id"); id != "" {
			fields = append(fields, "trace_id", id)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
