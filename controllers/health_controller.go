package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"orders-service/metrics"
)

// HealthController serves liveness and the service descriptor. The
// database field reflects the tracked connection state, never a live
// ping.
type HealthController struct {
	metrics     *metrics.Metrics
	dbConnected func() bool
}

func NewHealthController(m *metrics.Metrics, dbConnected func() bool) *HealthController {
	return &HealthController{
		metrics:     m,
		dbConnected: dbConnected,
	}
}

// Health reports overall status, store connectivity and uptime.
func (hc *HealthController) Health(c *gin.Context) {
	dbStatus := "disconnected"
	if hc.dbConnected() {
		dbStatus = "connected"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   "Orders Microservice",
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    fmt.Sprintf("%ds", hc.metrics.UptimeSeconds()),
	})
}

// Root returns the service descriptor with the endpoint map.
func (hc *HealthController) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "CampGO Orders Microservice",
		"version": "1.0.0",
		"status":  "running",
		"endpoints": gin.H{
			"health":       "/health",
			"metrics":      "/metrics",
			"orders":       "/api/orders",
			"createOrder":  "POST /api/orders",
			"updateStatus": "PUT /api/orders/:id/status",
			"getOrder":     "GET /api/orders/:id",
			"cancelOrder":  "DELETE /api/orders/:id",
		},
	})
}
