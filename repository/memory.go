package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"orders-service/models"
)

// MemoryOrderRepository is an in-memory OrderRepository used in tests
// and for running the service without a store.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders []models.Order
}

func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{}
}

func (r *MemoryOrderRepository) Create(ctx context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order.ID = primitive.NewObjectID()
	r.orders = append(r.orders, *order)
	return nil
}

func (r *MemoryOrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.orders {
		if r.orders[i].ID.Hex() == id {
			order := r.orders[i]
			return &order, nil
		}
	}
	return nil, ErrOrderNotFound
}

func (r *MemoryOrderRepository) FindPage(ctx context.Context, offset, limit int64) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := make([]models.Order, len(r.orders))
	copy(sorted, r.orders)
	// Newest first; insertion order breaks timestamp ties.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	total := int64(len(sorted))
	if offset >= total {
		return []models.Order{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return sorted[offset:end], total, nil
}

func (r *MemoryOrderRepository) UpdateByID(ctx context.Context, id string, fields map[string]interface{}) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.orders {
		if r.orders[i].ID.Hex() != id {
			continue
		}
		order := &r.orders[i]
		for key, value := range fields {
			switch key {
			case "status":
				if s, ok := value.(string); ok {
					order.Status = s
				}
			case "deliveryPersonId":
				if s, ok := value.(string); ok {
					order.DeliveryPersonID = &s
				}
			case "updatedAt":
				if t, ok := value.(time.Time); ok {
					order.UpdatedAt = t
				}
			}
		}
		updated := *order
		return &updated, nil
	}
	return nil, ErrOrderNotFound
}
