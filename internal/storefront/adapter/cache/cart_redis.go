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

// RedisCartStore keeps one JSON document per (session, store) that expires
// together with the session cookie.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

func cartKey(sessionID string, storeID int64) string {
	return fmt.Sprintf("cart:%d:%s", storeID, sessionID)
}

func (rc *RedisCartStore) Load(ctx context.Context, sessionID string, storeID int64) (models.Cart, error) {
	raw, err := rc.client.Get(ctx, cartKey(sessionID, storeID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Cart{}, nil
	}
	if err != nil {
		return models.Cart{}, err
	}

	var cart models.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return models.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return cart, nil
}

func (rc *RedisCartStore) Save(ctx context.Context, sessionID string, storeID int64, cart models.Cart) error {
	if cart.IsEmpty() {
		return rc.Clear(ctx, sessionID, storeID)
	}
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	return rc.client.Set(ctx, cartKey(sessionID, storeID), raw, rc.ttl).Err()
}

func (rc *RedisCartStore) Clear(ctx context.Context, sessionID string, storeID int64) error {
	return rc.client.Del(ctx, cartKey(sessionID, storeID)).Err()
}
