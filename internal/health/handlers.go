package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

var ready atomic.Bool

func init() {
	ready.Store(true)
}

// SetReady toggles the readiness flag. Shutdown flips it to false so load balancers drain traffic.
func SetReady(v bool) {
	ready.Store(v)
}

// IsReady reports the readiness flag.
func IsReady() bool {
	return ready.Load()
}

// Checker represents dependencies that can be probed for readiness.
type Checker interface {
	PingRedis(ctx context.Context, timeout time.Duration) error
}

// RedisChecker probes a redis client. A nil client is treated as "not configured" and passes.
type RedisChecker struct {
	Client *redis.Client
}

// PingRedis issues PING with the given timeout.
func (c RedisChecker) PingRedis(ctx context.Context, timeout time.Duration) error {
	if c.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.Client.Ping(ctx).Err()
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker      Checker
	RedisTimeout time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on the shutdown flag and dependency probes.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"app": "ok", "redis": "ok"}
	healthy := true
	if !IsReady() {
		status["app"] = "shutting down"
		healthy = false
	}
	if h.Checker != nil {
		if err := h.Checker.PingRedis(r.Context(), h.redisTimeout()); err != nil {
			status["redis"] = err.Error()
			healthy = false
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}

func (h Handler) redisTimeout() time.Duration {
	if h.RedisTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.RedisTimeout
}
