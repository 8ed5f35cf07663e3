package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCommands is the slice of the client the store actually uses, so tests
// can substitute canned replies.
type redisCommands interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisStore shares the fixed-window counters across instances. Windows are
// aligned to interval boundaries so every instance increments the same key.
type RedisStore struct {
	client redisCommands
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Check(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	now := time.Now()
	bucket := now.Unix() / int64(window.Seconds())
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)
	resetAt := time.Unix((bucket+1)*int64(window.Seconds()), 0)

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("redis incr: %w", err)
	}
	if count == 1 {
		// Expire a little after the window ends so a slow clock cannot drop
		// the counter early. A failed expire leaves a stray key behind, so
		// leave a trace; the quota decision itself is still valid.
		if err := s.client.Expire(ctx, redisKey, window+time.Second).Err(); err != nil {
			slog.Warn("rate limit key expiry not set", slog.String("key", redisKey), slog.Any("error", err))
		}
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= int64(limit),
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
