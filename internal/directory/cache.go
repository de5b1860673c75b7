package directory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"edms/internal/config"
)

// CachedDirectory is a read-through cache in front of another Directory.
// The cache is strictly best-effort: any Redis failure falls through to the
// inner directory and is never surfaced to the caller. Not-found results are
// not cached, so a newly onboarded employee shows up immediately.
type CachedDirectory struct {
	inner Directory
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCached wraps a directory with a Redis cache.
func NewCached(inner Directory, cfg config.RedisConfig) *CachedDirectory {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ttl := time.Duration(cfg.TTLSec) * time.Second
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedDirectory{inner: inner, rdb: rdb, ttl: ttl}
}

var _ Directory = (*CachedDirectory)(nil)

func cacheKey(email string) string {
	return "edms:directory:" + email
}

func (c *CachedDirectory) DepartmentByEmail(ctx context.Context, email string) (*Department, error) {
	if raw, err := c.rdb.Get(ctx, cacheKey(email)).Bytes(); err == nil {
		var dep Department
		if json.Unmarshal(raw, &dep) == nil {
			return &dep, nil
		}
	}

	dep, err := c.inner.DepartmentByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(dep); err == nil {
		_ = c.rdb.Set(ctx, cacheKey(email), raw, c.ttl).Err()
	}
	return dep, nil
}

// Close releases the Redis client.
func (c *CachedDirectory) Close() error {
	return c.rdb.Close()
}
