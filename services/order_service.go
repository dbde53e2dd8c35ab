package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"orders-service/models"
	"orders-service/repository"
)

// User-facing messages, preserved verbatim from the original service.
const (
	MsgMissingFields  = "Faltan campos requeridos: userId, restaurantId, items, deliveryAddress"
	MsgItemsNotArray  = "items debe ser un array no vacío"
	MsgStatusRequired = "El campo status es requerido"
	MsgOrderNotFound  = "Pedido no encontrado"
	MsgInternalError  = "Error interno del servidor"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	publishTimeout = 10 * time.Second
)

// ServiceError carries the HTTP status a failure maps to.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// EventPublisher emits order lifecycle events. Publishing is best effort
// and never fails a request.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishStatusChanged(ctx context.Context, order *models.Order) error
	Close()
}

// OrderService validates input, computes derived fields and orchestrates
// repository calls. It owns every business rule of the order lifecycle.
type OrderService struct {
	orderRepo repository.OrderRepository
	publisher EventPublisher
}

func NewOrderService(orderRepo repository.OrderRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		publisher: publisher,
	}
}

// Create validates the request, computes the total amount and persists
// the order with status pending.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, *ServiceError) {
	// Required fields are checked before the items-shape check.
	if req.UserID == "" || req.RestaurantID == "" || req.Items == nil || req.DeliveryAddress == "" {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: MsgMissingFields}
	}
	if len(req.Items) == 0 {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: MsgItemsNotArray}
	}

	totalAmount := 0.0
	for _, item := range req.Items {
		totalAmount += float64(item.Quantity) * item.Price
	}

	now := time.Now().UTC()
	order := &models.Order{
		UserID:          req.UserID,
		RestaurantID:    req.RestaurantID,
		Items:           req.Items,
		TotalAmount:     totalAmount,
		DeliveryAddress: req.DeliveryAddress,
		Status:          models.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, s.persistenceError("create order", err)
	}

	s.publishAsync(func(pubCtx context.Context) error {
		return s.publisher.PublishOrderCreated(pubCtx, order)
	})

	return order, nil
}

// List returns a page of orders, newest first, plus pagination metadata.
// page and limit fall back to 1 and 10 when not positive.
func (s *OrderService) List(ctx context.Context, page, limit int) (*ListResult, *ServiceError) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}

	offset := int64(page-1) * int64(limit)
	orders, total, err := s.orderRepo.FindPage(ctx, offset, int64(limit))
	if err != nil {
		return nil, s.persistenceError("list orders", err)
	}

	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return &ListResult{
		Orders: orders,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// Get looks up a single order by id.
func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, s.persistenceError("get order", err)
	}
	return order, nil
}

// UpdateStatus moves the order to the given status. Any of the six
// values may follow any other; no transition ordering is enforced.
// A supplied deliveryPersonId is stored, absence leaves it untouched.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*models.Order, *ServiceError) {
	if req.Status == "" {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: MsgStatusRequired}
	}
	if !models.IsValidStatus(req.Status) {
		return nil, &ServiceError{
			StatusCode: http.StatusBadRequest,
			Message:    fmt.Sprintf("Estado inválido. Valores permitidos: %s", strings.Join(models.ValidStatuses, ", ")),
		}
	}

	fields := map[string]interface{}{
		"status":    req.Status,
		"updatedAt": time.Now().UTC(),
	}
	if req.DeliveryPersonID != nil && *req.DeliveryPersonID != "" {
		fields["deliveryPersonId"] = *req.DeliveryPersonID
	}

	order, err := s.orderRepo.UpdateByID(ctx, id, fields)
	if err != nil {
		return nil, s.persistenceError("update order status", err)
	}

	s.publishAsync(func(pubCtx context.Context) error {
		return s.publisher.PublishStatusChanged(pubCtx, order)
	})

	return order, nil
}

// Cancel is a status transition to cancelled, not a deletion. The
// delivery person assignment is left untouched.
func (s *OrderService) Cancel(ctx context.Context, id string) (*models.Order, *ServiceError) {
	fields := map[string]interface{}{
		"status":    models.StatusCancelled,
		"updatedAt": time.Now().UTC(),
	}

	order, err := s.orderRepo.UpdateByID(ctx, id, fields)
	if err != nil {
		return nil, s.persistenceError("cancel order", err)
	}

	s.publishAsync(func(pubCtx context.Context) error {
		return s.publisher.PublishStatusChanged(pubCtx, order)
	})

	return order, nil
}

// persistenceError translates repository failures. Store errors are
// logged in full and surface externally with a generic message.
func (s *OrderService) persistenceError(op string, err error) *ServiceError {
	if errors.Is(err, repository.ErrOrderNotFound) {
		return &ServiceError{StatusCode: http.StatusNotFound, Message: MsgOrderNotFound}
	}
	zap.L().Error("Repository operation failed", zap.String("op", op), zap.Error(err))
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: MsgInternalError}
}

func (s *OrderService) publishAsync(publish func(ctx context.Context) error) {
	if s.publisher == nil {
		return
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := publish(pubCtx); err != nil {
			zap.L().Warn("Failed to publish order event", zap.Error(err))
		}
	}()
}
