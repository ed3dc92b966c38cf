package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hupe1980/datasetter/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	now := time.Unix(0, 0)
	rl := NewRateLimiter(60, 2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	// Budgets are per client.
	assert.True(t, rl.Allow("10.0.0.2"))

	// One token refills per second at 60 requests per minute.
	now = now.Add(time.Second)
	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.Equal(t, 2, rl.Len())

	// Idle clients are forgotten on the next sweep.
	now = now.Add(2 * time.Minute)
	assert.True(t, rl.Allow("10.0.0.3"))
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiter_Unlimited(t *testing.T) {
	rl := NewRateLimiter(0, 1, time.Minute)
	for range 100 {
		require.True(t, rl.Allow("10.0.0.1"))
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	s := New(config.ServerConfig{Addr: ":0", RateLimit: 1, Burst: 2})
	s.Mount("letters", newLetters(t))

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/letters/count", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("192.0.2.1:1000").Code)
	assert.Equal(t, http.StatusOK, do("192.0.2.1:1001").Code)

	rec := do("192.0.2.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")

	assert.Equal(t, http.StatusOK, do("192.0.2.2:1000").Code)

	// Health checks bypass the limiter.
	for range 5 {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "192.0.2.1:2000"
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
