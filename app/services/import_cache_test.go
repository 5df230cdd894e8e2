// Package services provides external service integrations and technical concerns like caching
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryImportCachePutGet(t *testing.T) {
	cache := NewMemoryImportCache(time.Minute)
	ctx := context.Background()

	payload := []byte(`{"import_id":"imp-1"}`)
	require.NoError(t, cache.Put(ctx, "imp-1", payload))

	got, err := cache.Get(ctx, "imp-1")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// Stored values are copies; mutating the original must not leak in.
	payload[0] = 'X'
	got, err = cache.Get(ctx, "imp-1")
	require.NoError(t, err)
	assert.Equal(t, byte('{'), got[0])
}

func TestMemoryImportCacheMissingKey(t *testing.T) {
	cache := NewMemoryImportCache(time.Minute)

	got, err := cache.Get(context.Background(), "nie-ma")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryImportCacheDelete(t *testing.T) {
	cache := NewMemoryImportCache(time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, "imp-1", []byte("x")))
	require.NoError(t, cache.Delete(ctx, "imp-1"))

	got, err := cache.Get(ctx, "imp-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, cache.Delete(ctx, "imp-1"))
}

func TestMemoryImportCacheExpiry(t *testing.T) {
	cache := NewMemoryImportCache(time.Minute).(*MemoryImportCache)
	ctx := context.Background()

	current := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	require.NoError(t, cache.Put(ctx, "imp-1", []byte("x")))

	current = current.Add(30 * time.Second)
	got, err := cache.Get(ctx, "imp-1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	current = current.Add(2 * time.Minute)
	got, err = cache.Get(ctx, "imp-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryImportCachePurgesExpiredOnPut(t *testing.T) {
	cache := NewMemoryImportCache(time.Minute).(*MemoryImportCache)
	ctx := context.Background()

	current := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return current }

	require.NoError(t, cache.Put(ctx, "stary", []byte("x")))

	current = current.Add(5 * time.Minute)
	require.NoError(t, cache.Put(ctx, "nowy", []byte("y")))

	cache.mu.Lock()
	_, stale := cache.entries["stary"]
	cache.mu.Unlock()
	assert.False(t, stale)
}

func TestNewMemoryImportCacheDefaultTTL(t *testing.T) {
	cache := NewMemoryImportCache(0).(*MemoryImportCache)
	assert.Equal(t, DefaultImportCacheTTL, cache.ttl)
}
