// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

// unreachableRedis forces every limiter call onto the in-process fallback.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:         "127.0.0.1:1",
		DialTimeout:  50 * time.Millisecond,
		ReadTimeout:  50 * time.Millisecond,
		WriteTimeout: 50 * time.Millisecond,
		MaxRetries:   -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterFallsBackWhenRedisUnavailable(t *testing.T) {
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Limit: Limit(2, 2, time.Minute),
	})
	handler := rl.Handler(okHandler())

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)

		if w.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
			assert.Contains(t, w.Body.String(), "RATE_LIMITED")
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Limit: Limit(1, 1, time.Minute),
	})
	handler := rl.Handler(okHandler())

	for _, addr := range []string{"10.0.0.2:1", "10.0.0.3:1"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, addr)
	}
}

func TestRateLimiterBypass(t *testing.T) {
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Limit:      Limit(1, 1, time.Minute),
		BypassFunc: func(r *http.Request) bool { return r.URL.Path == "/healthz" },
	})
	handler := rl.Handler(okHandler())

	for range 5 {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestKeyByIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "ratelimit:ip:192.0.2.1", KeyByIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "ratelimit:ip:198.51.100.7", KeyByIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.8")
	assert.Equal(t, "ratelimit:ip:198.51.100.8", KeyByIP(req))

	prefixed := KeyWithPrefix("auth", KeyByIP)
	assert.Equal(t, "auth:ratelimit:ip:198.51.100.8", prefixed(req))
}

func TestLimitDefaultsPeriod(t *testing.T) {
	l := Limit(10, 20, 0)
	assert.Equal(t, time.Minute, l.Period)
	assert.Equal(t, 10, l.Rate)
	assert.Equal(t, 20, l.Burst)
}

func TestRateLimitedResponseUsesErrorEnvelope(t *testing.T) {
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Limit: Limit(1, 1, 30*time.Second),
	})
	handler := rl.Handler(okHandler())

	var w *httptest.ResponseRecorder
	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		w = httptest.NewRecorder()
		handler.ServeHTTP(w, req)
	}

	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	var body core.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, core.CodeRateLimited, body.Code)
	assert.Equal(t, "Too many requests, retry in 30s", body.Message)
}

func TestBucketSetRefillsAndSweeps(t *testing.T) {
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	set := newBucketSet(func() time.Time { return clock })
	limit := Limit(6, 1, time.Minute)

	assert.Equal(t, 1, set.take("a", limit).Allowed)

	denied := set.take("a", limit)
	assert.Equal(t, 0, denied.Allowed)
	assert.Equal(t, 10*time.Second, denied.RetryAfter)

	clock = clock.Add(11 * time.Second)
	assert.Equal(t, 1, set.take("a", limit).Allowed, "an elapsed interval refills a token")

	set.take("b", limit)
	clock = clock.Add(bucketIdleTTL + sweepInterval)
	set.take("c", limit)

	set.mu.Lock()
	defer set.mu.Unlock()
	assert.NotContains(t, set.buckets, "a")
	assert.NotContains(t, set.buckets, "b")
	assert.Contains(t, set.buckets, "c")
}
