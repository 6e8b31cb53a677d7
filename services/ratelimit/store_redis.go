package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "rl:"

// RedisStore counts windows with INCR + PEXPIRE so limits hold across all
// server instances sharing the Redis database.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore builds a store over an existing Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Increment bumps the counter for an identifier. The expiry is only set when
// the INCR created the key, so the window does not slide on every request.
func (s *RedisStore) Increment(ctx context.Context, identifier string, window time.Duration) (int, time.Time, error) {
	key := redisKeyPrefix + identifier

	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("rate limit incr failed: %w", err)
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("rate limit expire failed: %w", err)
		}
		return int(count), time.Now().Add(window), nil
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		// Key exists without expiry (e.g. a crashed PExpire); reset it so the
		// identifier is not locked out forever.
		_ = s.client.PExpire(ctx, key, window).Err()
		ttl = window
	}
	return int(count), time.Now().Add(ttl), nil
}
