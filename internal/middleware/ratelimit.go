// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

type RateLimitConfig struct {
	Limit      redis_rate.Limit
	KeyFunc    func(*http.Request) string
	BypassFunc func(*http.Request) bool
}

// RateLimiter counts requests in redis and switches to per-process buckets
// while redis is unreachable.
type RateLimiter struct {
	redis    *redis_rate.Limiter
	local    *bucketSet
	config   RateLimitConfig
	degraded atomic.Bool
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		redis:  redis_rate.NewLimiter(rdb),
		local:  newBucketSet(time.Now),
		config: cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.BypassFunc != nil && rl.config.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.config.KeyFunc(r)
		res := rl.take(r, key)

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit.Rate))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset",
			strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))

		if res.Allowed == 0 {
			retryAfter := max(1, int(math.Ceil(res.RetryAfter.Seconds())))
			h.Set("Retry-After", strconv.Itoa(retryAfter))
			core.JSONError(w, core.RateLimitedError(retryAfter))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) take(r *http.Request, key string) *redis_rate.Result {
	res, err := rl.redis.Allow(r.Context(), key, rl.config.Limit)
	if err == nil {
		if rl.degraded.CompareAndSwap(true, false) {
			slog.InfoContext(r.Context(), "rate limiter using redis again")
		}
		return res
	}

	if rl.degraded.CompareAndSwap(false, true) {
		slog.WarnContext(r.Context(), "rate limiter falling back to local buckets",
			"error", err,
		)
	}
	return rl.local.take(key, rl.config.Limit)
}

func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return "ratelimit:ip:" + strings.TrimSpace(hops[len(hops)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ratelimit:ip:" + xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ratelimit:ip:" + host
}

// KeyWithPrefix namespaces another key func so separate limiters do not
// share buckets.
func KeyWithPrefix(prefix string, keyFunc func(*http.Request) string) func(*http.Request) string {
	return func(r *http.Request) string {
		return prefix + ":" + keyFunc(r)
	}
}

// Limit builds a limit of rate requests per period, defaulting to a minute.
func Limit(rate, burst int, period time.Duration) redis_rate.Limit {
	if period <= 0 {
		period = time.Minute
	}
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: period,
	}
}

const (
	bucketIdleTTL = 10 * time.Minute
	sweepInterval = time.Minute
)

type bucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

// bucketSet holds one token bucket per key. Idle buckets are dropped during
// a later take rather than by a background goroutine.
type bucketSet struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

func newBucketSet(now func() time.Time) *bucketSet {
	return &bucketSet{
		buckets:   make(map[string]*bucket),
		lastSweep: now(),
		now:       now,
	}
}

func (s *bucketSet) take(key string, limit redis_rate.Limit) *redis_rate.Result {
	interval := limit.Period
	if limit.Rate > 0 {
		interval = limit.Period / time.Duration(limit.Rate)
	}

	now := s.now()

	s.mu.Lock()
	if now.Sub(s.lastSweep) >= sweepInterval {
		for k, b := range s.buckets {
			if now.Sub(b.seen) > bucketIdleTTL {
				delete(s.buckets, k)
			}
		}
		s.lastSweep = now
	}

	b, ok := s.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(interval), limit.Burst)}
		s.buckets[key] = b
	}
	b.seen = now
	allowed := b.limiter.AllowN(now, 1)
	remaining := max(0, int(b.limiter.TokensAt(now)))
	s.mu.Unlock()

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: interval,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	return res
}
