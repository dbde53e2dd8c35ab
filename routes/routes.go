package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orders-service/controllers"
)

// RegisterRoutes wires the full HTTP surface: operational endpoints,
// the order API and the catch-all 404.
func RegisterRoutes(r *gin.Engine, orderController *controllers.OrderController, healthController *controllers.HealthController, metricsHandler http.Handler) {
	r.GET("/", healthController.Root)
	r.GET("/health", healthController.Health)
	r.GET("/metrics", gin.WrapH(metricsHandler))

	api := r.Group("/api")
	{
		api.GET("/orders", orderController.GetOrders)
		api.POST("/orders", orderController.CreateOrder)
		api.GET("/orders/:id", orderController.GetOrderByID)
		api.PUT("/orders/:id/status", orderController.UpdateOrderStatus)
		api.DELETE("/orders/:id", orderController.CancelOrder)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "Endpoint no encontrado",
		})
	})
}
