package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chartsync/chartsync/pkg/metrics"
)

// requestMetrics records request counts and latency per HTTP method
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())
		metrics.APIRequestsTotal.WithLabelValues(method, status).Inc()
		metrics.APIRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	}
}
