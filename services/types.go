package services

import "orders-service/models"

// CreateOrderRequest is the request payload for creating an order.
// totalAmount is never accepted from the caller; it is always derived
// from the items.
type CreateOrderRequest struct {
	UserID          string             `json:"userId"`
	RestaurantID    string             `json:"restaurantId"`
	Items           []models.OrderItem `json:"items"`
	DeliveryAddress string             `json:"deliveryAddress"`
}

// UpdateStatusRequest is the request payload for a status update.
// DeliveryPersonID left nil keeps the stored value untouched.
type UpdateStatusRequest struct {
	Status           string  `json:"status"`
	DeliveryPersonID *string `json:"deliveryPersonId"`
}

// Pagination describes the listing window returned alongside a page of
// orders.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// ListResult is a page of orders plus its pagination metadata.
type ListResult struct {
	Orders     []models.Order
	Pagination Pagination
}
