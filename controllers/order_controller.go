package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"orders-service/metrics"
	"orders-service/services"
)

const (
	defaultPage  = "1"
	defaultLimit = "10"
)

// OrderController translates HTTP requests into lifecycle-manager calls
// and shapes the JSON responses. Every failed request bumps the error
// counter exactly once.
type OrderController struct {
	service OrderAPI
	cache   *CacheManager
	metrics *metrics.Metrics
}

func NewOrderController(service OrderAPI, cache *CacheManager, m *metrics.Metrics) *OrderController {
	return &OrderController{
		service: service,
		cache:   cache,
		metrics: m,
	}
}

// GetOrders lists orders with pagination, newest first.
func (oc *OrderController) GetOrders(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	result, serviceErr := oc.service.List(c.Request.Context(), page, limit)
	if serviceErr != nil {
		oc.fail(c, serviceErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       result.Orders,
		"pagination": result.Pagination,
	})
}

// CreateOrder creates a new order from a validated request body.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		oc.fail(c, &services.ServiceError{
			StatusCode: http.StatusBadRequest,
			Message:    services.MsgMissingFields,
		})
		return
	}

	order, serviceErr := oc.service.Create(c.Request.Context(), &req)
	if serviceErr != nil {
		oc.fail(c, serviceErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Orden creada exitosamente",
		"data":    order,
	})
}

// GetOrderByID returns a single order, served from cache when possible.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id := c.Param("id")

	if cached, ok := oc.cache.GetOrder(c.Request.Context(), id); ok {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": cached})
		return
	}

	order, serviceErr := oc.service.Get(c.Request.Context(), id)
	if serviceErr != nil {
		oc.fail(c, serviceErr)
		return
	}

	oc.cache.SetOrderAsync(id, order)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// UpdateOrderStatus advances the order through the delivery lifecycle.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		oc.fail(c, &services.ServiceError{
			StatusCode: http.StatusBadRequest,
			Message:    services.MsgStatusRequired,
		})
		return
	}

	order, serviceErr := oc.service.UpdateStatus(c.Request.Context(), id, &req)
	if serviceErr != nil {
		oc.fail(c, serviceErr)
		return
	}

	oc.cache.InvalidateOrder(id)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Estado actualizado correctamente",
		"data":    order,
	})
}

// CancelOrder sets the order status to cancelled. Orders are never
// physically deleted.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	id := c.Param("id")

	order, serviceErr := oc.service.Cancel(c.Request.Context(), id)
	if serviceErr != nil {
		oc.fail(c, serviceErr)
		return
	}

	oc.cache.InvalidateOrder(id)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Orden cancelada correctamente",
		"data":    order,
	})
}

func (oc *OrderController) fail(c *gin.Context, serviceErr *services.ServiceError) {
	oc.metrics.Errors.Inc()
	c.JSON(serviceErr.StatusCode, gin.H{
		"success": false,
		"error":   serviceErr.Message,
	})
}

// parsePaginationParams reads page and limit from the query string,
// falling back to 1 and 10 when absent or non-numeric. No upper bound
// is enforced on limit.
func parsePaginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", defaultPage))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", defaultLimit))
	if err != nil || limit < 1 {
		limit = 10
	}
	return page, limit
}
