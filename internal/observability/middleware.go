package observability

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Poll endpoints are hit once per probe interval; logging every hit at info
// would drown the scan heartbeat.
var pollRoutes = map[string]struct{}{
	"/health":          {},
	"/ready":           {},
	"/status":          {},
	"/metrics":         {},
	"/snapshot/latest": {},
}

func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		event := logger.Info()
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		default:
			if _, polled := pollRoutes[path]; polled {
				event = logger.Debug()
			}
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("monitor.request")
	}
}

func RequestMetricsMiddleware(runtime string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		RecordHTTPRequest(runtime, c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
