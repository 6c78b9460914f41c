package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	// Allow counts one request for key and reports whether it fits in the
	// current window, how many remain and when the window resets.
	Allow(ctx context.Context, key string) (allowed bool, remaining int64, resetIn time.Duration, err error)

	// Limit returns the number of requests allowed per window.
	Limit() int64

	// Close closes the Redis connection
	Close() error
}

type redisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	logger *slog.Logger
}

// NewRateLimiter creates a Redis-backed fixed-window limiter
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration, logger *slog.Logger) RateLimiter {
	logger.Info("✅ [RateLimiter] Using Redis rate limiter", "limit", limit, "window", window)
	return &redisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// windowKey generates the Redis key for a throttled client
// Format: rate:{key}
func windowKey(key string) string {
	return fmt.Sprintf("rate:%s", key)
}

func (r *redisRateLimiter) Allow(ctx context.Context, key string) (bool, int64, time.Duration, error) {
	k := windowKey(key)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to count request", "error", err, "key", key)
		return true, r.limit, 0, err
	}

	resetIn := ttl.Val()
	// A fresh counter, or one that lost its expiry, starts a new window.
	if resetIn < 0 {
		if err := r.client.PExpire(ctx, k, r.window).Err(); err != nil {
			r.logger.Error("❌ [RateLimiter] Failed to set window expiry", "error", err, "key", key)
			return true, r.limit, 0, err
		}
		resetIn = r.window
	}

	count := incr.Val()
	remaining := r.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= r.limit, remaining, resetIn, nil
}

func (r *redisRateLimiter) Limit() int64 {
	return r.limit
}

func (r *redisRateLimiter) Close() error {
	return r.client.Close()
}

// NoOpRateLimiter is a rate limiter that always allows requests
// Used when Redis is not available
type NoOpRateLimiter struct {
	logger *slog.Logger
}

// NewNoOpRateLimiter creates a no-op rate limiter
func NewNoOpRateLimiter(logger *slog.Logger) RateLimiter {
	logger.Warn("⚠️ [RateLimiter] Using no-op rate limiter - rate limiting is disabled")
	return &NoOpRateLimiter{logger: logger}
}

func (r *NoOpRateLimiter) Allow(ctx context.Context, key string) (bool, int64, time.Duration, error) {
	return true, -1, 0, nil
}

func (r *NoOpRateLimiter) Limit() int64 {
	return -1
}

func (r *NoOpRateLimiter) Close() error {
	return nil
}

// Throttle limits requests per client IP under scope. Limiter failures let
// the request through.
func Throttle(limiter RateLimiter, scope string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		allowed, remaining, resetIn, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("⚠️ [RateLimiter] Limiter unavailable, allowing request", "scope", scope, "error", err)
			c.Next()
			return
		}

		if limit := limiter.Limit(); limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.FormatInt(limit, 10))
			c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
		}

		if !allowed {
			retryAfter := int64(resetIn.Round(time.Second) / time.Second)
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
			logger.Warn("🚫 [RateLimiter] Request throttled", "scope", scope, "ip", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try again later."})
			return
		}

		c.Next()
	}
}
