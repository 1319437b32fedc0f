package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// DistributedRateLimiter implements a fixed window limit in Redis so that
// limits are shared across instances
type DistributedRateLimiter struct {
	redis  *redis.Client
	rate   Rate
	prefix string
	now    func() time.Time
}

// NewDistributedRateLimiter creates a new Redis-backed rate limiter
func NewDistributedRateLimiter(redisClient *redis.Client, rate Rate, prefix string) *DistributedRateLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}

	return &DistributedRateLimiter{
		redis:  redisClient,
		rate:   rate,
		prefix: prefix,
		now:    time.Now,
	}
}

// Allow counts the request in the current window. Redis errors are
// returned with an allowing decision so callers can fail open.
func (rl *DistributedRateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := fmt.Sprintf("%s:%s", rl.prefix, key)

	pipe := rl.redis.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Allowed: true, Limit: rl.rate.Limit}, fmt.Errorf("redis error: %w", err)
	}

	// the window starts with the first request; set its expiry once so
	// steady traffic cannot keep extending it
	ttl := pttl.Val()
	if ttl < 0 {
		if err := rl.redis.PExpire(ctx, redisKey, rl.rate.Period).Err(); err != nil {
			return Decision{Allowed: true, Limit: rl.rate.Limit}, fmt.Errorf("redis error: %w", err)
		}
		ttl = rl.rate.Period
	}

	count := incr.Val()
	remaining := int64(rl.rate.Limit) - count
	if remaining < 0 {
		remaining = 0
	}

	d := Decision{
		Allowed:   count <= int64(rl.rate.Limit),
		Limit:     rl.rate.Limit,
		Remaining: int(remaining),
		ResetAt:   rl.now().Add(ttl),
	}
	if !d.Allowed {
		d.RetryAfter = ttl
	}
	return d, nil
}

// Reset clears the window for a key
func (rl *DistributedRateLimiter) Reset(ctx context.Context, key string) error {
	redisKey := fmt.Sprintf("%s:%s", rl.prefix, key)
	return rl.redis.Del(ctx, redisKey).Err()
}
