// Package services provides external service integrations and technical concerns like caching
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultImportCacheTTL bounds how long an analyzed import stays applicable.
const DefaultImportCacheTTL = time.Hour

// ImportCache stores pending import analyses between the analyze and apply
// phases. Values are opaque JSON payloads; entries expire after the
// configured TTL. Get returns (nil, nil) for a missing or expired key.
type ImportCache interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// RedisImportCache keeps pending imports in Redis so multiple API processes
// can share the analyze/apply lifecycle.
type RedisImportCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisImportCache creates a Redis-backed import cache. An empty prefix
// and non-positive TTL fall back to defaults.
func NewRedisImportCache(client *redis.Client, prefix string, ttl time.Duration) ImportCache {
	if ttl <= 0 {
		ttl = DefaultImportCacheTTL
	}
	return &RedisImportCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *RedisImportCache) key(key string) string {
	return c.prefix + "import:" + key
}

func (c *RedisImportCache) Put(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, c.key(key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store import in cache: %w", err)
	}
	return nil
}

func (c *RedisImportCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read import from cache: %w", err)
	}
	return value, nil
}

func (c *RedisImportCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete import from cache: %w", err)
	}
	return nil
}

// MemoryImportCache is the in-process fallback used when Redis is disabled
// and in tests. Expired entries are purged lazily on access.
type MemoryImportCache struct {
	mu      sync.Mutex
	entries map[string]memoryCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryCacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryImportCache creates an in-memory import cache. A non-positive TTL
// falls back to the default.
func NewMemoryImportCache(ttl time.Duration) ImportCache {
	if ttl <= 0 {
		ttl = DefaultImportCacheTTL
	}
	return &MemoryImportCache{
		entries: make(map[string]memoryCacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *MemoryImportCache) Put(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	c.entries[key] = memoryCacheEntry{
		value:     stored,
		expiresAt: now.Add(c.ttl),
	}
	return nil
}

func (c *MemoryImportCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, nil
}

func (c *MemoryImportCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}
