package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taskflow/core/internal/infrastructure/config"
	"github.com/taskflow/core/internal/infrastructure/logger"
)

const (
	redisMaxRetries = 3
	redisRetryDelay = 500 * time.Millisecond
)

// NewRedisClient connects to Redis, retrying with exponential backoff
func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetAddr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	delay := redisRetryDelay
	var err error
	for attempt := 1; attempt <= redisMaxRetries; attempt++ {
		if err = client.Ping(ctx).Err(); err == nil {
			log.Debugw("Redis connected", "addr", cfg.GetAddr(), "attempt", attempt)
			return client, nil
		}

		log.Warnw("Redis connection failed", "addr", cfg.GetAddr(), "attempt", attempt, "error", err)
		if attempt == redisMaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			client.Close()
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	client.Close()
	return nil, fmt.Errorf("failed to connect to Redis after %d attempts: %w", redisMaxRetries, err)
}
