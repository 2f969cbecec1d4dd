package redis

import (
	"context"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/dealership-service/internal/platform/logger"
	"github.com/redis/go-redis/v9"
)

// NewClient connects to the cart and vehicle cache store and checks it
// answers a PING within the dial timeout.
func NewClient(ctx context.Context, cfg config.RedisConfig, log logger.Logger) (*redis.Client, error) {
	log = log.Named("Redis")
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warnw("Redis ping failed", "addr", cfg.Addr, "db", cfg.DB, "error", err)
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	log.Infow("Connected to Redis", "addr", cfg.Addr, "db", cfg.DB)
	return client, nil
}
