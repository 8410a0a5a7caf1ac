// Package cache provides the shared store behind rate limiting.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	smemory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const limiterKeyPrefix = "momo:ratelimit"

// ConnectRedis parses a redis:// URL, connects and pings the server.
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// NewLimiterStore returns a Redis-backed limiter store when redisURL is set
// and reachable, so that every instance shares the same counters. Otherwise
// counters live in process memory. The returned close func is never nil.
func NewLimiterStore(ctx context.Context, redisURL string, logger *slog.Logger) (limiter.Store, func(), error) {
	if strings.TrimSpace(redisURL) == "" {
		logger.Info("REDIS_URL not set, rate limit counters kept in memory")
		return smemory.NewStoreWithOptions(limiter.StoreOptions{Prefix: limiterKeyPrefix}), func() {}, nil
	}

	rdb, err := ConnectRedis(ctx, redisURL)
	if err != nil {
		logger.Warn("redis unavailable, rate limit counters kept in memory", slog.String("error", err.Error()))
		return smemory.NewStoreWithOptions(limiter.StoreOptions{Prefix: limiterKeyPrefix}), func() {}, nil
	}

	store, err := sredis.NewStoreWithOptions(rdb, limiter.StoreOptions{Prefix: limiterKeyPrefix})
	if err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("failed to create redis limiter store: %w", err)
	}
	logger.Info("rate limit counters shared through redis")
	return store, func() { _ = rdb.Close() }, nil
}
