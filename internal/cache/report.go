package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tuanvumaihuynh/stock-ledger/internal/config"
)

const reportVersionKey = "stock-ledger:report:version"

// ReportCache is a versioned JSON cache for report results. Every ledger
// write bumps the version, which orphans all previously cached reports.
// A nil *ReportCache is valid and always calls the loader.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a redis client for cfg and pings it. It returns a nil client
// when no address is configured.
func New(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// NewReportCache wraps client. It returns nil when client is nil.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	if client == nil {
		return nil
	}
	return &ReportCache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising it when missing.
func (c *ReportCache) Version(ctx context.Context) (int64, error) {
	if c == nil {
		return 0, nil
	}

	ver, err := c.client.Get(ctx, reportVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		// SETNX so that concurrent initialisers agree on the first version.
		if err := c.client.SetNX(ctx, reportVersionKey, 1, 0).Err(); err != nil {
			return 0, fmt.Errorf("init report cache version: %w", err)
		}
		return c.client.Get(ctx, reportVersionKey).Int64()
	}
	if err != nil {
		return 0, fmt.Errorf("get report cache version: %w", err)
	}

	return ver, nil
}

// BuildKey composes a versioned key from parts.
func (c *ReportCache) BuildKey(ctx context.Context, parts ...string) (string, error) {
	joined := strings.Join(append([]string{"stock-ledger", "report"}, parts...), ":")
	if c == nil {
		return joined, nil
	}

	ver, err := c.Version(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s:v%d", joined, ver), nil
}

// Bump invalidates every cached report.
func (c *ReportCache) Bump(ctx context.Context) error {
	if c == nil {
		return nil
	}

	if err := c.client.Incr(ctx, reportVersionKey).Err(); err != nil {
		return fmt.Errorf("bump report cache version: %w", err)
	}

	return nil
}

// Fetch returns the cached value under the versioned key built from parts or
// populates it with loader. Redis failures degrade to calling loader.
func Fetch[T any](ctx context.Context, c *ReportCache, loader func(context.Context) (T, error), parts ...string) (T, error) {
	if c == nil {
		return loader(ctx)
	}

	key, err := c.BuildKey(ctx, parts...)
	if err != nil {
		return loader(ctx)
	}

	if payload, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached T
		if err := json.Unmarshal(payload, &cached); err == nil {
			return cached, nil
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return value, err
	}

	if raw, err := json.Marshal(value); err == nil {
		//nolint:errcheck
		c.client.Set(ctx, key, raw, c.ttl)
	}

	return value, nil
}
