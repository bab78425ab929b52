package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TagCache is a tag-addressable redis cache. Every entry belongs to a tag; the
// current tag version is embedded in the storage key, so bumping the version
// expires all entries under the tag in one operation. A value computed before an
// invalidation is written under the old version and can never be observed as
// fresh afterwards.
type TagCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTagCache(client *redis.Client, ttl time.Duration) *TagCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &TagCache{client: client, ttl: ttl}
}

// GetOrCompute returns the cached value for key under tag, running compute on a
// miss and storing the result. Compute runs once per miss window under normal
// operation; concurrent misses may race, last write wins.
func (c *TagCache) GetOrCompute(ctx context.Context, tag, key string, compute func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	ver, err := c.tagVersion(ctx, tag)
	if err != nil {
		return nil, err
	}
	full := storageKey(tag, ver, key)

	data, err := c.client.Get(ctx, full).Bytes()
	if err == nil {
		return data, nil
	}
	if err != redis.Nil {
		return nil, err
	}

	data, err = compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, full, data, c.ttl).Err(); err != nil {
		return nil, err
	}
	return data, nil
}

// InvalidateTag bumps the tag version so subsequent reads under the tag miss.
// Invalidating an already-invalidated tag is a no-op beyond another bump.
func (c *TagCache) InvalidateTag(ctx context.Context, tag string) error {
	return c.client.Incr(ctx, versionKey(tag)).Err()
}

func (c *TagCache) tagVersion(ctx context.Context, tag string) (int64, error) {
	ver, err := c.client.Get(ctx, versionKey(tag)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

func versionKey(tag string) string { return fmt.Sprintf("cache:tag:%s", tag) }

func storageKey(tag string, ver int64, key string) string {
	return fmt.Sprintf("cache:%s:v%d:%s", tag, ver, key)
}
