package http

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "apartment-estimator/internal/common/errors"
	"apartment-estimator/internal/common/logger"
)

// RateLimiter is a fixed-window counter per client IP kept in Redis.
type RateLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	log    logger.Logger
	now    func() time.Time
}

func NewRateLimiter(client redis.Cmdable, limit int, window time.Duration, log logger.Logger) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window, log: log, now: time.Now}
}

// Allow counts one request for key in the current window.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := l.now()
	slot := now.UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, slot)

	n, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, err
	}
	if n == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, 0, err
		}
	}

	reset := time.Unix(0, (slot+1)*int64(l.window)).Sub(now)
	return n <= int64(l.limit), reset, nil
}

// Middleware answers 429 once a client exceeds the window. Redis failures
// let the request through.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, reset, err := l.Allow(r.Context(), clientIP(r))
		if err != nil {
			l.log.WithError(err).Warn("Rate limiter unavailable", nil)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			secs := int(reset.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			WriteError(w, apperrors.NewRateLimitedError(fmt.Sprintf("more than %d requests per %s", l.limit, l.window)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
