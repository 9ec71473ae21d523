package poke

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter enforces the per-sender poke quota.
type Limiter interface {
	// Allow consumes one unit of the sender's quota. When the quota is
	// exhausted it reports allowed=false and when the window resets.
	Allow(ctx context.Context, senderID uuid.UUID) (allowed bool, remaining int, resetAt time.Time, err error)
	// Limit returns the quota size.
	Limit() int
}

const quotaWindow = 24 * time.Hour

// RedisLimiter counts sends per character in a rolling 24h window
// using an atomic INCR. A nil Redis client disables the limit.
type RedisLimiter struct {
	redis *redis.Client
	limit int
}

// NewRedisLimiter creates a limiter allowing limit pokes per 24h.
func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	if limit <= 0 {
		limit = 10
	}
	return &RedisLimiter{redis: client, limit: limit}
}

func (l *RedisLimiter) Allow(ctx context.Context, senderID uuid.UUID) (bool, int, time.Time, error) {
	if l.redis == nil {
		return true, l.limit, time.Now().Add(quotaWindow), nil
	}

	key := "poke:quota:" + senderID.String()

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, time.Time{}, err
	}
	if count == 1 {
		// First send in the window starts the clock.
		l.redis.Expire(ctx, key, quotaWindow)
	}

	ttl, err := l.redis.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = quotaWindow
	}
	resetAt := time.Now().Add(ttl)

	if count > int64(l.limit) {
		return false, 0, resetAt, nil
	}
	return true, l.limit - int(count), resetAt, nil
}

// Limit returns the configured quota size.
func (l *RedisLimiter) Limit() int {
	return l.limit
}
