// file: internal/server/middleware/ratelimit_test.go
// version: 2.0.0
// guid: b31f3de0-b0bc-4cbf-8448-7309df38f7c0

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(limiter *IPRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(limiter.Middleware())
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	router.GET("/api/v1/conditions", ok)
	router.GET("/metrics", ok)
	return router
}

func get(router http.Handler, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNewIPRateLimiter_Defaults(t *testing.T) {
	t.Parallel()

	limiter := NewIPRateLimiter(0, 0)
	assert.Equal(t, 1, limiter.burst)
	assert.Equal(t, 60, limiter.retryAfter)
	assert.Equal(t, 1, NewIPRateLimiter(600, 1).retryAfter)
	assert.Equal(t, 2, NewIPRateLimiter(40, 1).retryAfter)
}

func TestIPRateLimiter_Middleware(t *testing.T) {
	t.Parallel()

	router := limitedRouter(NewIPRateLimiter(1, 1))

	assert.Equal(t, http.StatusOK, get(router, "/api/v1/conditions", "192.0.2.1:1234").Code)

	resp := get(router, "/api/v1/conditions", "192.0.2.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Contains(t, resp.Body.String(), "RATE_LIMITED")
	assert.Equal(t, "60", resp.Header().Get("Retry-After"))

	// Different IP should have its own bucket.
	assert.Equal(t, http.StatusOK, get(router, "/api/v1/conditions", "198.51.100.3:4321").Code)
}

func TestIPRateLimiter_Exempt(t *testing.T) {
	t.Parallel()

	router := limitedRouter(NewIPRateLimiter(1, 1).Exempt("/metrics"))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(router, "/metrics", "192.0.2.9:1").Code)
	}
	assert.Equal(t, http.StatusOK, get(router, "/api/v1/conditions", "192.0.2.9:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "/api/v1/conditions", "192.0.2.9:1").Code)
}

func TestIPRateLimiter_Refills(t *testing.T) {
	t.Parallel()

	limiter := NewIPRateLimiter(60, 1)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	assert.True(t, limiter.allow("192.0.2.1"))
	assert.False(t, limiter.allow("192.0.2.1"))

	clock = clock.Add(time.Second)
	assert.True(t, limiter.allow("192.0.2.1"))
}

func TestIPRateLimiter_SweepsIdleClients(t *testing.T) {
	t.Parallel()

	limiter := NewIPRateLimiter(60, 1)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	limiter.allow("192.0.2.1")
	limiter.allow("192.0.2.2")
	assert.Equal(t, 2, limiter.tracked())

	// Within the sweep interval nothing is dropped.
	clock = clock.Add(limiter.sweepInterval / 2)
	limiter.allow("192.0.2.3")
	assert.Equal(t, 3, limiter.tracked())

	clock = clock.Add(limiter.idleTTL + time.Second)
	limiter.allow("192.0.2.4")
	assert.Equal(t, 1, limiter.tracked())
}
