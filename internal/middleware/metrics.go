// internal/middleware/metrics.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillswap/skillswap-backend/internal/metrics"
)

// Metrics records request counts and latency per method and status.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		collector.RecordHTTPRequest(c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
