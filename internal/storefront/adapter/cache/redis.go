package cache

import (
	"context"
	"fmt"
	"time"

	"food-ordering/internal/xpkg/config"
	"food-ordering/internal/xpkg/logger"

	"github.com/redis/go-redis/v9"
)

// Connect opens a redis client and verifies it with a ping.
func Connect(ctx context.Context, cfg *config.Redis, mylog logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}

	mylog.Action("redis_connected").Info("Connected to Redis", "addr", cfg.Addr)
	return client, nil
}
