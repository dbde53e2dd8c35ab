package middleware

import (
	"github.com/gin-gonic/gin"

	"orders-service/metrics"
)

// CountRequests bumps the request counter before any routing or I/O.
// The increment is synchronous and never blocks the handler chain.
func CountRequests(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.Requests.Inc()
		c.Next()
	}
}
