package middleware

import (
	"time"

	"worklab/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records status codes and latency for every request.
func MetricsMiddleware(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		collector.RecordHTTPStatus(c.Writer.Status())
		collector.RecordHTTPLatency(time.Since(start))
	}
}
