// AngelaMos | 2026
// redis.go

package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/store-ratings/internal/config"
)

const cacheKeyPrefix = "store-ratings:cache:"

type Redis struct {
	Client *redis.Client
}

func NewRedis(ctx context.Context, cfg config.RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.PoolTimeout = 30 * time.Second
	opts.ConnMaxIdleTime = 5 * time.Minute

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{Client: client}, nil
}

func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

func (r *Redis) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.Client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	return nil
}

func (r *Redis) PoolStats() *redis.PoolStats {
	return r.Client.PoolStats()
}

// Cached returns the JSON value stored under key, or calls load and stores
// its result for ttl. Redis failures fall through to load; they never fail
// the caller.
func Cached[T any](
	ctx context.Context,
	client redis.Cmdable,
	key string,
	ttl time.Duration,
	load func(context.Context) (T, error),
) (T, error) {
	fullKey := cacheKeyPrefix + key

	if client != nil {
		raw, err := client.Get(ctx, fullKey).Bytes()
		switch {
		case err == nil:
			var cached T
			if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
				return cached, nil
			}
		case !errors.Is(err, redis.Nil):
			slog.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	if client != nil {
		if raw, jsonErr := json.Marshal(value); jsonErr == nil {
			if setErr := client.Set(ctx, fullKey, raw, ttl).Err(); setErr != nil {
				slog.WarnContext(ctx, "cache write failed", "key", key, "error", setErr)
			}
		}
	}

	return value, nil
}
