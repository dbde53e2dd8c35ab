package controllers

import (
	"context"

	"orders-service/models"
	"orders-service/services"
)

// OrderAPI is the lifecycle-manager surface the HTTP layer depends on.
type OrderAPI interface {
	Create(ctx context.Context, req *services.CreateOrderRequest) (*models.Order, *services.ServiceError)
	List(ctx context.Context, page, limit int) (*services.ListResult, *services.ServiceError)
	Get(ctx context.Context, id string) (*models.Order, *services.ServiceError)
	UpdateStatus(ctx context.Context, id string, req *services.UpdateStatusRequest) (*models.Order, *services.ServiceError)
	Cancel(ctx context.Context, id string) (*models.Order, *services.ServiceError)
}
