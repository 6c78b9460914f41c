package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogify-press/backend-go/internal/middleware"
	"github.com/blogify-press/backend-go/internal/testutil"
)

func setupRateLimiter(t *testing.T, limit int64) (middleware.RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := middleware.NewRateLimiter(client, limit, time.Minute, testutil.NewTestLogger())
	t.Cleanup(func() { limiter.Close() })
	return limiter, mr
}

func TestRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	limiter, mr := setupRateLimiter(t, 3)

	for i := int64(1); i <= 3; i++ {
		allowed, remaining, resetIn, err := limiter.Allow(ctx, "signin:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 3-i, remaining)
		assert.Greater(t, resetIn, time.Duration(0))
	}

	allowed, remaining, _, err := limiter.Allow(ctx, "signin:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, int64(0), remaining)

	// Keys are independent.
	allowed, _, _, err = limiter.Allow(ctx, "signin:5.6.7.8")
	require.NoError(t, err)
	assert.True(t, allowed)

	// The window expires.
	mr.FastForward(time.Minute + time.Second)
	allowed, _, _, err = limiter.Allow(ctx, "signin:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimiter_SetsExpiry(t *testing.T) {
	limiter, mr := setupRateLimiter(t, 10)

	_, _, _, err := limiter.Allow(context.Background(), "signup:9.9.9.9")
	require.NoError(t, err)

	assert.Equal(t, time.Minute, mr.TTL("rate:signup:9.9.9.9"))
}

func TestRateLimiter_RedisDown(t *testing.T) {
	limiter, mr := setupRateLimiter(t, 1)
	mr.Close()

	allowed, _, _, err := limiter.Allow(context.Background(), "k")

	assert.Error(t, err)
	assert.True(t, allowed, "fails open")
}

func TestNoOpRateLimiter(t *testing.T) {
	limiter := middleware.NewNoOpRateLimiter(testutil.NewTestLogger())

	for i := 0; i < 100; i++ {
		allowed, _, _, err := limiter.Allow(context.Background(), "k")
		require.NoError(t, err)
		require.True(t, allowed)
	}
	assert.Equal(t, int64(-1), limiter.Limit())
	assert.NoError(t, limiter.Close())
}

func TestThrottle(t *testing.T) {
	limiter, _ := setupRateLimiter(t, 2)
	r := gin.New()
	r.POST("/signin", middleware.Throttle(limiter, "signin", testutil.NewTestLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	var w *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signin", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signin", nil))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"Too many requests, please try again later."}`, w.Body.String())
}

func TestThrottle_FailsOpen(t *testing.T) {
	limiter, mr := setupRateLimiter(t, 1)
	mr.Close()
	r := gin.New()
	r.POST("/signin", middleware.Throttle(limiter, "signin", testutil.NewTestLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/signin", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
