// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/store-ratings/internal/admin"
	"github.com/carterperez-dev/store-ratings/internal/auth"
	"github.com/carterperez-dev/store-ratings/internal/config"
	"github.com/carterperez-dev/store-ratings/internal/core"
	"github.com/carterperez-dev/store-ratings/internal/health"
	"github.com/carterperez-dev/store-ratings/internal/middleware"
	"github.com/carterperez-dev/store-ratings/internal/rating"
	"github.com/carterperez-dev/store-ratings/internal/server"
	"github.com/carterperez-dev/store-ratings/internal/store"
	"github.com/carterperez-dev/store-ratings/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(cfg.Database.URL); err != nil {
			return err
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
		"token_expire", cfg.JWT.TokenExpire,
	)

	metrics := middleware.NewMetrics()

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)

	ratingSvc := rating.NewService(
		rating.NewTransactor(db.DB),
		rating.NewRepository(db.DB),
		rating.NewMetrics(metrics.Registerer()),
	)

	storeSvc := store.NewService(store.NewRepository(db.DB), ratingSvc, userSvc)

	authSvc := auth.NewService(jwtManager, userSvc)

	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
	)

	handlers := server.Handlers{
		Auth:   auth.NewHandler(authSvc),
		User:   user.NewHandler(userSvc),
		Store:  store.NewHandler(storeSvc),
		Rating: rating.NewHandler(ratingSvc),
		Admin: admin.NewHandler(admin.HandlerConfig{
			CountUsers:   userSvc.Count,
			CountStores:  storeSvc.Count,
			CountRatings: ratingSvc.Count,
			Cache:        redis.Client,
			DBStats:      db.Stats,
			RedisStats:   redis.PoolStats,
			DBPing:       db.Ping,
			RedisPing:    redis.Ping,
		}),
	}

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(metrics.Instrument)
	}
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.Limit(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			BypassFunc: isOperationalPath(cfg.Metrics.Path),
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	if cfg.Metrics.Enabled {
		router.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}
	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Limit: middleware.Limit(
			cfg.RateLimit.AuthRequests,
			cfg.RateLimit.AuthBurst,
			cfg.RateLimit.Window,
		),
		KeyFunc:    middleware.KeyWithPrefix("auth", middleware.KeyByIP),
		BypassFunc: isNotCredentialPost,
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(authLimiter.Handler)
		server.MountAPI(r, jwtManager, handlers)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func isOperationalPath(metricsPath string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		switch r.URL.Path {
		case "/healthz", "/livez", "/readyz", metricsPath:
			return true
		}
		return false
	}
}

// isNotCredentialPost limits the tighter auth budget to login and
// registration attempts.
func isNotCredentialPost(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return true
	}
	return !strings.HasSuffix(r.URL.Path, "/auth/login") &&
		!strings.HasSuffix(r.URL.Path, "/auth/register")
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
