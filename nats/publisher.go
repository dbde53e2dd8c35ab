package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"orders-service/models"
)

const (
	subjectOrderCreated  = "order.created"
	subjectStatusChanged = "order.status_changed"

	connectAttempts = 3
	connectWait     = 2 * time.Second
)

// Publisher emits order events on NATS. Publishing is best effort; the
// order service never fails a request because an event did not go out.
type Publisher struct {
	nc *nats.Conn
}

// OrderEvent is the payload for both order.created and
// order.status_changed.
type OrderEvent struct {
	OrderID      string  `json:"orderId"`
	UserID       string  `json:"userId"`
	RestaurantID string  `json:"restaurantId"`
	Status       string  `json:"status"`
	TotalAmount  float64 `json:"totalAmount"`
	OccurredAt   string  `json:"occurredAt"`
}

// NewPublisher connects to NATS with a short retry loop.
func NewPublisher(url string) (*Publisher, error) {
	var nc *nats.Conn
	var err error

	for i := 0; i < connectAttempts; i++ {
		nc, err = nats.Connect(url,
			nats.Name("Orders Microservice"),
			nats.MaxReconnects(5),
			nats.ReconnectWait(connectWait),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				zap.L().Warn("NATS disconnected", zap.Error(err))
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				zap.L().Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
			}),
		)
		if err == nil {
			return &Publisher{nc: nc}, nil
		}
		zap.L().Warn("Failed to connect to NATS",
			zap.Int("attempt", i+1),
			zap.Error(err))
		if i < connectAttempts-1 {
			time.Sleep(connectWait)
		}
	}
	return nil, fmt.Errorf("failed to connect to NATS after %d attempts: %w", connectAttempts, err)
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, subjectOrderCreated, OrderEvent{
		OrderID:      order.ID.Hex(),
		UserID:       order.UserID,
		RestaurantID: order.RestaurantID,
		Status:       order.Status,
		TotalAmount:  order.TotalAmount,
		OccurredAt:   order.CreatedAt.Format(time.RFC3339),
	})
}

func (p *Publisher) PublishStatusChanged(ctx context.Context, order *models.Order) error {
	return p.publish(ctx, subjectStatusChanged, OrderEvent{
		OrderID:      order.ID.Hex(),
		UserID:       order.UserID,
		RestaurantID: order.RestaurantID,
		Status:       order.Status,
		TotalAmount:  order.TotalAmount,
		OccurredAt:   order.UpdatedAt.Format(time.RFC3339),
	})
}

func (p *Publisher) publish(ctx context.Context, subject string, event OrderEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	if err := p.nc.FlushTimeout(2 * time.Second); err != nil {
		return fmt.Errorf("failed to flush NATS connection: %w", err)
	}

	zap.L().Info("Order event published",
		zap.String("subject", subject),
		zap.String("order_id", event.OrderID))
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
	}
}

// NoopPublisher is used when no NATS URL is configured; the service
// runs standalone without event publishing.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *models.Order) error { return nil }

func (NoopPublisher) PublishStatusChanged(context.Context, *models.Order) error { return nil }

func (NoopPublisher) Close() {}
