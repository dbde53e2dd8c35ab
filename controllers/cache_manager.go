package controllers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"orders-service/models"
)

const (
	OrderCachePrefix = "order:detail:"

	DefaultCacheTTL = 60 * time.Second
	cacheOpTimeout  = 5 * time.Second
)

// CacheManager caches order lookups in Redis. A nil client disables
// caching entirely; failures always degrade to the repository.
type CacheManager struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewCacheManager(redisClient *redis.Client) *CacheManager {
	return &CacheManager{
		redis: redisClient,
		ttl:   DefaultCacheTTL,
	}
}

// GetOrder retrieves a cached order, reporting a miss on any failure.
func (cm *CacheManager) GetOrder(ctx context.Context, orderID string) (*models.Order, bool) {
	if cm == nil || cm.redis == nil {
		return nil, false
	}

	cachedData, err := cm.redis.Get(ctx, OrderCachePrefix+orderID).Result()
	if err != nil {
		return nil, false
	}

	var order models.Order
	if err := json.Unmarshal([]byte(cachedData), &order); err != nil {
		zap.L().Warn("Failed to unmarshal cached order", zap.Error(err), zap.String("order_id", orderID))
		return nil, false
	}
	return &order, true
}

// SetOrderAsync caches an order without blocking the response path.
func (cm *CacheManager) SetOrderAsync(orderID string, order *models.Order) {
	if cm == nil || cm.redis == nil {
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
		defer cancel()

		orderJSON, err := json.Marshal(order)
		if err != nil {
			zap.L().Warn("Failed to marshal order for cache", zap.Error(err), zap.String("order_id", orderID))
			return
		}
		if err := cm.redis.Set(bgCtx, OrderCachePrefix+orderID, orderJSON, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache order", zap.Error(err), zap.String("order_id", orderID))
		}
	}()
}

// InvalidateOrder drops the cached entry after a status change.
func (cm *CacheManager) InvalidateOrder(orderID string) {
	if cm == nil || cm.redis == nil {
		return
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
		defer cancel()

		if err := cm.redis.Del(bgCtx, OrderCachePrefix+orderID).Err(); err != nil {
			zap.L().Warn("Failed to delete order cache", zap.Error(err), zap.String("order_id", orderID))
		}
	}()
}
