package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-checkout/internal/common"
)

// Handler limits requests per key. Redis failures let the request through.
type Handler struct {
	Limiter Limiter
	Key     func(*http.Request) string
	Logger  zerolog.Logger
}

// Middleware wraps next with the limit check.
func (h Handler) Middleware(next http.Handler) http.Handler {
	if !h.Limiter.Enabled() || h.Key == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := h.Key(r)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		allowed, remaining, resetAt, err := h.Limiter.Allow(r.Context(), key)
		if err != nil {
			h.Logger.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			next.ServeHTTP(w, r)
			return
		}

		headers := w.Header()
		headers.Set("X-RateLimit-Limit", strconv.Itoa(h.Limiter.Max))
		headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		headers.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			headers.Set("Retry-After", strconv.Itoa(retryAfter))
			common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many checkout attempts", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
