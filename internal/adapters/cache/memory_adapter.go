package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/careatlas/provider-lookup/internal/domain/providers"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultMemoryCacheSize = 1000
	defaultMemoryCacheTTL  = 24 * time.Hour
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryAdapter implements the CacheProvider interface with a bounded,
// time-expiring in-process LRU. Used when Redis is unavailable and for
// instance-scoped caches like the query-parse cache. Safe for concurrent use.
type MemoryAdapter struct {
	lru *expirable.LRU[string, memoryEntry]
}

// NewMemoryAdapter creates a memory cache bounded at size entries. Entries
// older than maxTTL are evicted regardless of their per-call expiration.
func NewMemoryAdapter(size int, maxTTL time.Duration) providers.CacheProvider {
	if size <= 0 {
		size = defaultMemoryCacheSize
	}
	if maxTTL <= 0 {
		maxTTL = defaultMemoryCacheTTL
	}
	return &MemoryAdapter{
		lru: expirable.NewLRU[string, memoryEntry](size, nil, maxTTL),
	}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(_ context.Context, key string) ([]byte, error) {
	entry, ok := a.lru.Get(key)
	if !ok {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		a.lru.Remove(key)
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return entry.data, nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(_ context.Context, key string, value []byte, expirationSeconds int) error {
	var expiresAt time.Time
	if expirationSeconds > 0 {
		expiresAt = time.Now().Add(time.Duration(expirationSeconds) * time.Second)
	}
	a.lru.Add(key, memoryEntry{data: value, expiresAt: expiresAt})
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(_ context.Context, key string) error {
	a.lru.Remove(key)
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	if _, err := a.Get(ctx, key); err != nil {
		return false, nil
	}
	return true, nil
}
