package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLimiterRefillsOverTime(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(1, 2, time.Minute)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "buckets are per key")

	clock = clock.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestLimiterForgetsIdleVisitors(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(1, 1, time.Minute)
	l.now = func() time.Time { return clock }

	l.Allow("a")
	clock = clock.Add(2 * time.Minute)
	l.Allow("b")

	assert.NotContains(t, l.visitors, "a")
	assert.Contains(t, l.visitors, "b")
}

func TestMiddlewareRejectsWith429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/generate", Middleware(0.5, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 2)
	var last *httptest.ResponseRecorder
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/generate", nil)
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		last = w
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "3", last.Header().Get("Retry-After"))
}

func TestMiddlewareDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/generate", Middleware(0, 1), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/generate", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
