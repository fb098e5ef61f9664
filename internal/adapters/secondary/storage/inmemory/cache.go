package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/admin/astro-match/internal/ports/cache"
)

type entry struct {
	value     string
	expiresAt time.Time // zero - без срока
}

// Cache in-memory реализация cache.Cache, используется когда Redis не настроен
type Cache struct {
	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		items: make(map[string]entry),
		now:   time.Now,
	}
}

func (c *Cache) Get(_ context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || c.expired(e) {
		if ok {
			c.mu.Lock()
			if cur, still := c.items[key]; still && c.expired(cur) {
				delete(c.items, key)
			}
			c.mu.Unlock()
		}
		return "", fmt.Errorf("%w: %s", cache.ErrMiss, key)
	}
	return e.value, nil
}

func (c *Cache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
	return nil
}

func (c *Cache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, key := range keys {
		delete(c.items, key)
	}
	c.mu.Unlock()
	return nil
}

func (c *Cache) Close() error {
	c.mu.Lock()
	c.items = make(map[string]entry)
	c.mu.Unlock()
	return nil
}

func (c *Cache) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)
}
