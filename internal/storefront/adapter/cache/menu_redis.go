package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"food-ordering/internal/storefront/domain/models"

	"github.com/redis/go-redis/v9"
)

type RedisMenuCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisMenuCache(client *redis.Client, ttl time.Duration) *RedisMenuCache {
	return &RedisMenuCache{client: client, ttl: ttl}
}

func menuKey(storeID int64) string {
	return fmt.Sprintf("menu:%d", storeID)
}

func (mc *RedisMenuCache) Get(ctx context.Context, storeID int64) ([]models.Item, bool, error) {
	raw, err := mc.client.Get(ctx, menuKey(storeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []models.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, fmt.Errorf("decode menu: %w", err)
	}
	return items, true, nil
}

func (mc *RedisMenuCache) Set(ctx context.Context, storeID int64, items []models.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode menu: %w", err)
	}
	return mc.client.Set(ctx, menuKey(storeID), raw, mc.ttl).Err()
}

func (mc *RedisMenuCache) Invalidate(ctx context.Context, storeID int64) error {
	return mc.client.Del(ctx, menuKey(storeID)).Err()
}
