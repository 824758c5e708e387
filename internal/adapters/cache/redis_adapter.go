package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ototamirci/backend/internal/domain/providers"
	redisclient "github.com/ototamirci/backend/internal/infrastructure/clients/redis"
)

const counterKeyPrefix = "ratelimit:"

// RedisCounterStore implements providers.CounterStore with INCR plus a
// first-hit expiry, so every API instance shares one window per key.
type RedisCounterStore struct {
	client *redisclient.Client
}

// NewRedisCounterStore creates a new Redis-backed counter store
func NewRedisCounterStore(client *redisclient.Client) providers.CounterStore {
	return &RedisCounterStore{client: client}
}

// Increment bumps key and returns the count and remaining window
func (s *RedisCounterStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	fullKey := counterKeyPrefix + key

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.client.Client().TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, fullKey)
		pipe.ExpireNX(ctx, fullKey, window)
		ttl = pipe.PTTL(ctx, fullKey)
		return nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("failed to increment counter: %w", err)
	}

	remaining := ttl.Val()
	if remaining <= 0 {
		remaining = window
	}
	return incr.Val(), remaining, nil
}
