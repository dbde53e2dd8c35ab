package repository

import (
	"context"
	"errors"

	"orders-service/models"
)

// ErrOrderNotFound is returned when an order id does not resolve to a
// stored record. A store failure is returned as a distinct wrapped error.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the persistence operations used by the order
// service. Implementations own no business rules; no operation ever
// deletes a record.
type OrderRepository interface {
	// Create inserts the order and sets the store-assigned id on it.
	Create(ctx context.Context, order *models.Order) error
	// FindByID returns the order or ErrOrderNotFound.
	FindByID(ctx context.Context, id string) (*models.Order, error)
	// FindPage returns a window of orders sorted by creation time
	// descending, plus the total count independent of the window.
	FindPage(ctx context.Context, offset, limit int64) ([]models.Order, int64, error)
	// UpdateByID applies a partial update and returns the post-update
	// record, or ErrOrderNotFound.
	UpdateByID(ctx context.Context, id string, fields map[string]interface{}) (*models.Order, error)
}
