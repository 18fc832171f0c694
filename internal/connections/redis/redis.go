package redis

import (
	"context"
	"fmt"
	"time"

	rds "github.com/redis/go-redis/v9"

	"restaurant-dashboard/internal/config"
)

const pingTTL = 3 * time.Second

func NewClient(cfg config.RedisConfig) *rds.Client {
	return rds.NewClient(&rds.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Connect returns a client that answered a ping.
func Connect(ctx context.Context, cfg config.RedisConfig) (*rds.Client, error) {
	client := NewClient(cfg)
	pctx, cancel := context.WithTimeout(ctx, pingTTL)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}
