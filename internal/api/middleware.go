package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"monitoring-service/internal/logging"
)

// RequestLoggingMiddleware logs one line per request, query string and
// client included. Handler errors recorded on the gin context get a second
// line at error level.
func RequestLoggingMiddleware(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		logger.Infof("Request: %s %s, Status: %d, Latency: %v, Client: %s",
			method, path, status, latency, c.ClientIP())
		for _, e := range c.Errors {
			logger.Errorf("Handler error on %s %s: %v", method, path, e.Err)
		}
	}
}
