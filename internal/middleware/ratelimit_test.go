package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRateLimitRouter(l *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/write", l.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func post(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/write", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	limiter := NewRateLimiter(1, 3)
	start := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return start }
	router := setupRateLimitRouter(limiter)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, post(router, "10.0.0.1:1234").Code)
	}

	w := post(router, "10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limited")
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// a different client has its own bucket
	assert.Equal(t, http.StatusNoContent, post(router, "10.0.0.2:1234").Code)
}

func TestRateLimiter_Refills(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("a"))
	assert.False(t, limiter.Allow("a"))

	now = now.Add(time.Second)
	assert.True(t, limiter.Allow("a"))
}

func TestRateLimiter_ForgetsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	limiter.Allow("a")
	limiter.Allow("b")
	assert.Equal(t, 2, limiter.Clients())

	now = now.Add(clientTTL + time.Minute)
	limiter.Allow("c")
	assert.Equal(t, 1, limiter.Clients())
}

func TestNewRateLimiter_MinimumBurst(t *testing.T) {
	limiter := NewRateLimiter(5, 0)
	assert.Equal(t, 1, limiter.burst)
	assert.True(t, limiter.Allow("a"))
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
