package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultRedisTTL = 30 * time.Second

// compare-and-delete so a holder whose lease expired cannot release a newer holder's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// Redis is a lease lock stored under the key itself with SET NX PX. Every process pointed at
// the same server shares the key space.
type Redis struct {
	Client *redis.Client
	// Retry is the pause between acquisition attempts. Defaults to 50ms.
	Retry  time.Duration
}

// WithLock polls until key is acquired or ctx is done, then runs fn. The lease expires after
// ttl even if the holder never releases it.
func (l Redis) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error {
	if l.Client == nil {
		return ErrNotConfigured
	}
	if fn == nil {
		return errors.New("lock: callback not provided")
	}
	token, err := l.acquire(ctx, key, ttl)
	if err != nil {
		return err
	}
	defer l.release(key, token)
	return fn(ctx)
}

func (l Redis) acquire(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	retry := l.Retry
	if retry <= 0 {
		retry = 50 * time.Millisecond
	}
	token := uuid.NewString()
	ticker := time.NewTicker(retry)
	defer ticker.Stop()
	for {
		ok, err := l.Client.SetNX(ctx, key, token, ttl).Result()
		switch {
		case err != nil:
			return "", err
		case ok:
			return token, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

// release runs on a fresh context so a cancelled caller still frees the key.
func (l Redis) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = releaseScript.Run(ctx, l.Client, []string{key}, token).Err()
}
