package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3)
	now := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		require.True(t, rl.Allow("1.1.1.1"), "request %d within burst", i+1)
	}
	assert.False(t, rl.Allow("1.1.1.1"), "burst exhausted")
	assert.True(t, rl.Allow("2.2.2.2"), "other clients have their own bucket")

	now = now.Add(21 * time.Second)
	assert.True(t, rl.Allow("1.1.1.1"), "one token refills every 20s")
	assert.False(t, rl.Allow("1.1.1.1"))
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(10)
	now := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("1.1.1.1")
	rl.Allow("2.2.2.2")
	require.Equal(t, 2, rl.Len())

	now = now.Add(5 * time.Minute)
	rl.Allow("3.3.3.3")
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiter_Handler(t *testing.T) {
	rl := NewRateLimiter(1)
	onLimit := func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}
	h := rl.Handler(onLimit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do("192.0.2.1:1000").Code)

	rec := do("192.0.2.1:2000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "same host, different port")
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, do("192.0.2.2:1000").Code)
}
