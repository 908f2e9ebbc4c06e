// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/store-ratings/internal/core"
)

const (
	dashboardCacheKey = "admin:dashboard"
	defaultCacheTTL   = 2 * time.Second
)

// Counter reports the cardinality of one table.
type Counter func(ctx context.Context) (int, error)

type Handler struct {
	countUsers   Counter
	countStores  Counter
	countRatings Counter
	cache        redis.Cmdable
	cacheTTL     time.Duration
	dbStats      func() sql.DBStats
	redisStats   func() *redis.PoolStats
	redisPing    func(ctx context.Context) error
	dbPing       func(ctx context.Context) error
}

type HandlerConfig struct {
	CountUsers   Counter
	CountStores  Counter
	CountRatings Counter
	// Cache holds the dashboard counts for CacheTTL. Nil disables caching.
	Cache      redis.Cmdable
	CacheTTL   time.Duration
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Handler{
		countUsers:   cfg.CountUsers,
		countStores:  cfg.CountStores,
		countRatings: cfg.CountRatings,
		cache:        cfg.Cache,
		cacheTTL:     ttl,
		dbStats:      cfg.DBStats,
		redisStats:   cfg.RedisStats,
		redisPing:    cfg.RedisPing,
		dbPing:       cfg.DBPing,
	}
}

// RegisterRoutes expects a router that already requires Admin.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.GetDashboard)
	r.Get("/system", h.GetSystemStats)
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := core.Cached(
		r.Context(),
		h.cache,
		dashboardCacheKey,
		h.cacheTTL,
		h.loadDashboard,
	)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) loadDashboard(ctx context.Context) (DashboardResponse, error) {
	var resp DashboardResponse

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return count(gctx, "users", h.countUsers, &resp.TotalUsers)
	})
	g.Go(func() error {
		return count(gctx, "stores", h.countStores, &resp.TotalStores)
	})
	g.Go(func() error {
		return count(gctx, "ratings", h.countRatings, &resp.TotalRatings)
	})

	if err := g.Wait(); err != nil {
		return DashboardResponse{}, err
	}

	return resp, nil
}

func count(ctx context.Context, name string, fn Counter, dst *int) error {
	if fn == nil {
		return nil
	}
	n, err := fn(ctx)
	if err != nil {
		return fmt.Errorf("count %s: %w", name, err)
	}
	*dst = n
	return nil
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbHealthy := true
	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			dbHealthy = false
		}
	}

	redisHealthy := true
	if h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			redisHealthy = false
		}
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	core.OK(w, SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: RuntimeStats{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			NumCPU:       runtime.NumCPU(),
			MemAlloc:     memStats.Alloc,
			MemSys:       memStats.Sys,
			NumGC:        memStats.NumGC,
		},
	})
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}
