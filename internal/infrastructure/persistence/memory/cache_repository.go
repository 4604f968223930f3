// Package memory provides an in-memory cache repository used when the Redis
// cart cache is disabled. Entries expire lazily on read, and writes sweep out
// expired entries at most once per sweepInterval. No background goroutine is
// involved, so constructing a repository never leaks.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/modushop/v2/internal/infrastructure/cache"
	"github.com/modushop/v2/internal/ports/outbound"
)

const (
	defaultTTL    = 24 * time.Hour
	sweepInterval = 5 * time.Minute
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// CacheRepository implements outbound.CacheRepository on a plain map.
type CacheRepository struct {
	mu        sync.RWMutex
	data      map[string]entry
	nextSweep time.Time
}

// NewCacheRepository creates an in-memory cache repository.
func NewCacheRepository() outbound.CacheRepository {
	return &CacheRepository{
		data:      make(map[string]entry),
		nextSweep: time.Now().Add(sweepInterval),
	}
}

// Get retrieves a value, returning cache.ErrCacheMiss when absent or expired.
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	item, ok := r.data[key]
	r.mu.RUnlock()

	if !ok || time.Now().After(item.expiresAt) {
		return nil, cache.ErrCacheMiss
	}
	return item.value, nil
}

// Set stores a value with the given TTL. A zero TTL falls back to a day.
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	now := time.Now()
	r.mu.Lock()
	r.data[key] = entry{value: value, expiresAt: now.Add(ttl)}
	r.sweepLocked(now)
	r.mu.Unlock()
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	delete(r.data, key)
	r.mu.Unlock()
	return nil
}

// Exists reports whether an unexpired value is present.
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	r.mu.RLock()
	item, ok := r.data[key]
	r.mu.RUnlock()

	return ok && time.Now().Before(item.expiresAt), nil
}

// sweepLocked drops expired entries when the sweep interval has elapsed.
// Callers must hold the write lock.
func (r *CacheRepository) sweepLocked(now time.Time) {
	if now.Before(r.nextSweep) {
		return
	}
	for key, item := range r.data {
		if now.After(item.expiresAt) {
			delete(r.data, key)
		}
	}
	r.nextSweep = now.Add(sweepInterval)
}
