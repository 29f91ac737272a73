package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Limiter counts attempts per key in a sliding window stored in a Redis sorted set.
type Limiter struct {
	Client *redis.Client
	Prefix string
	Window time.Duration
	Max    int
	Now    func() time.Time
}

// Enabled reports whether the limiter will ever refuse an attempt.
func (l Limiter) Enabled() bool {
	return l.Client != nil && l.Max > 0 && l.Window > 0
}

// Allow records one attempt for key and reports whether it fits in the window, how many
// attempts remain and when the window resets.
func (l Limiter) Allow(ctx context.Context, key string) (allowed bool, remaining int, reset time.Time, err error) {
	now := time.Now()
	if l.Now != nil {
		now = l.Now()
	}
	reset = now.Add(l.Window)
	if !l.Enabled() {
		return true, l.Max, reset, nil
	}

	redisKey := l.Prefix + key
	member := fmt.Sprintf("%d:%s", now.UnixNano(), uuid.NewString())
	cutoff := now.Add(-l.Window).UnixNano()

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", fmt.Sprintf("(%d", cutoff))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.Window)
	if _, err = pipe.Exec(ctx); err != nil {
		return false, 0, reset, err
	}

	current := int(countCmd.Val())
	remaining = l.Max - current
	if remaining < 0 {
		remaining = 0
	}
	return current <= l.Max, remaining, reset, nil
}
