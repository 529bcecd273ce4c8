package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/skillforge/skillforge-backend/internal/pkg/logger"
)

// EngineCache is the optional read-through cache in front of the engine,
// keyed by userId + operation. Misses and failures are soft: callers fall
// back to recomputation.
type EngineCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
	Close() error
}

// Key builds the cache key for an engine operation.
func Key(op, userID string) string {
	return "engine:" + op + ":" + userID
}

type engineCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

func NewEngineCache(addr string, log *logger.Logger) (EngineCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &engineCache{
		log: log.With("service", "EngineCache"),
		rdb: rdb,
	}, nil
}

func (c *engineCache) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false
	}
	if err != nil {
		c.log.Warn("Cache read failed; treating as miss", "key", key, "error", err)
		return nil, false
	}
	return raw, true
}

func (c *engineCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", "key", key, "error", err)
	}
}

func (c *engineCache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("Cache invalidation failed", "keys", keys, "error", err)
	}
}

func (c *engineCache) Close() error {
	return c.rdb.Close()
}
