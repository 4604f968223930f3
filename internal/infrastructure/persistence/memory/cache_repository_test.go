package memory

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modushop/v2/internal/infrastructure/cache"
)

func TestCacheRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewCacheRepository()

	require.NoError(t, repo.Set(ctx, "cart:123", []byte(`{"id":"123"}`), time.Minute))

	value, err := repo.Get(ctx, "cart:123")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"id":"123"}`), value)

	exists, err := repo.Exists(ctx, "cart:123")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, "cart:123"))

	_, err = repo.Get(ctx, "cart:123")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestCacheRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	repo := NewCacheRepository()

	require.NoError(t, repo.Set(ctx, "cart:expired", []byte("x"), time.Nanosecond))
	time.Sleep(10 * time.Millisecond)

	_, err := repo.Get(ctx, "cart:expired")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	exists, err := repo.Exists(ctx, "cart:expired")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheRepositorySweepsExpiredOnWrite(t *testing.T) {
	ctx := context.Background()
	repo := NewCacheRepository().(*CacheRepository)

	require.NoError(t, repo.Set(ctx, "cart:old", []byte("x"), time.Nanosecond))
	time.Sleep(10 * time.Millisecond)

	// Pull the next sweep forward so the following write performs it.
	repo.mu.Lock()
	repo.nextSweep = time.Time{}
	repo.mu.Unlock()

	require.NoError(t, repo.Set(ctx, "cart:new", []byte("y"), time.Minute))

	repo.mu.RLock()
	_, ok := repo.data["cart:old"]
	repo.mu.RUnlock()
	assert.False(t, ok, "expired entry survives until a write sweeps it out")
}

func TestCacheRepositoryConstructionStartsNoGoroutines(t *testing.T) {
	before := runtime.NumGoroutine()
	for i := 0; i < 50; i++ {
		NewCacheRepository()
	}
	assert.Less(t, runtime.NumGoroutine(), before+10)
}

func TestCacheRepositoryMissingKey(t *testing.T) {
	ctx := context.Background()
	repo := NewCacheRepository()

	_, err := repo.Get(ctx, "nope")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)

	exists, err := repo.Exists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.NoError(t, repo.Delete(ctx, "nope"))
}
