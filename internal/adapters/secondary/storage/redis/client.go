package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/admin/astro-match/internal/ports/cache"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "astro-match:"

// Client кэш карт поверх Redis, все ключи живут под общим префиксом
type Client struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewClient prefix пустой - используется defaultKeyPrefix
func NewClient(rdb redis.UniversalClient, prefix string) *Client {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &Client{rdb: rdb, prefix: prefix}
}

var _ cache.Cache = (*Client)(nil)

func (c *Client) key(k string) string {
	return c.prefix + k
}

// Get на отсутствующий ключ отдаёт cache.ErrMiss
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, c.key(key)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", fmt.Errorf("%w: %s", cache.ErrMiss, key)
	case err != nil:
		return "", fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return val, nil
}

// Set ttl <= 0 - ключ без срока
func (c *Client) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Delete через UNLINK, память освобождается в фоне
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.key(k)
	}

	if err := c.rdb.Unlink(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("failed to evict %d cache keys: %w", len(keys), err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
