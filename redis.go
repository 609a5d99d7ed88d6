package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// initRedis connects the optional response cache. The caller treats a nil
// client as "caching disabled" and serves everything from the store.
func initRedis() (*redis.Client, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis:6379"
	}

	opt, err := redis.ParseURL(fmt.Sprintf("redis://%s", redisURL))
	if err != nil {
		// Fallback to simple connection
		opt = &redis.Options{
			Addr: redisURL,
		}
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

// invalidateTransactionCache drops the cached GET /api/transactions response.
func (s *Server) invalidateTransactionCache() {
	if s.redis != nil {
		s.redis.Del(context.Background(), "transactions")
	}
}

// invalidateSyncHistoryCache drops the cached sync history response.
func (s *Server) invalidateSyncHistoryCache() {
	if s.redis != nil {
		s.redis.Del(context.Background(), "sync-history")
	}
}
