package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Any of these may follow any other; the lifecycle does
// not enforce forward-only transitions.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusPreparing  = "preparing"
	StatusOnDelivery = "on_delivery"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// ValidStatuses lists every accepted order status, in lifecycle order.
var ValidStatuses = []string{
	StatusPending,
	StatusConfirmed,
	StatusPreparing,
	StatusOnDelivery,
	StatusDelivered,
	StatusCancelled,
}

// IsValidStatus reports whether status is one of the six accepted values.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Order is the persisted unit of work representing a customer's food
// order and its delivery state.
type Order struct {
	ID               primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID           string             `json:"userId" bson:"userId"`
	RestaurantID     string             `json:"restaurantId" bson:"restaurantId"`
	Items            []OrderItem        `json:"items" bson:"items"`
	TotalAmount      float64            `json:"totalAmount" bson:"totalAmount"`
	DeliveryAddress  string             `json:"deliveryAddress" bson:"deliveryAddress"`
	Status           string             `json:"status" bson:"status"`
	DeliveryPersonID *string            `json:"deliveryPersonId" bson:"deliveryPersonId"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// OrderItem is a single line of an order. Items are immutable after
// creation; totalAmount is never recomputed from them.
type OrderItem struct {
	Name     string  `json:"name" bson:"name"`
	Quantity int     `json:"quantity" bson:"quantity"`
	Price    float64 `json:"price" bson:"price"`
}
