package lock

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotConfigured is returned when a locker is missing its backend.
var ErrNotConfigured = errors.New("lock: backend not configured")

// Locker runs fn while holding the lock named key.
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error
}

// Local is an in-process keyed mutex. ttl is ignored; the lock is held until fn returns.
type Local struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocal returns a ready Local locker.
func NewLocal() *Local {
	return &Local{slots: make(map[string]chan struct{})}
}

func (l *Local) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.slots == nil {
		l.slots = make(map[string]chan struct{})
	}
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

// WithLock blocks until key is free or ctx is done.
func (l *Local) WithLock(ctx context.Context, key string, _ time.Duration, fn func(context.Context) error) error {
	if fn == nil {
		return errors.New("lock: callback not provided")
	}
	ch := l.slot(key)
	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-ch }()
	return fn(ctx)
}

// WithKeys runs fn while holding every key. Keys are deduplicated and taken in sorted order
// so callers locking overlapping sets cannot deadlock; they are released in reverse order.
func WithKeys(ctx context.Context, l Locker, keys []string, ttl time.Duration, fn func(context.Context) error) error {
	if l == nil {
		return ErrNotConfigured
	}
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)
	return withSorted(ctx, l, sorted, ttl, fn)
}

func withSorted(ctx context.Context, l Locker, keys []string, ttl time.Duration, fn func(context.Context) error) error {
	if len(keys) == 0 {
		return fn(ctx)
	}
	return l.WithLock(ctx, keys[0], ttl, func(ctx context.Context) error {
		return withSorted(ctx, l, keys[1:], ttl, fn)
	})
}
