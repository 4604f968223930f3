package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/domain/basket"
	"github.com/modushop/v2/internal/domain/shared"
	gormpersist "github.com/modushop/v2/internal/infrastructure/persistence/gorm"
	"github.com/modushop/v2/internal/ports/outbound"
)

type nopDispatcher struct{}

func (nopDispatcher) Register(string, shared.EventHandler)        {}
func (nopDispatcher) Publish(context.Context, shared.DomainEvent) {}

// fakeCache is an in-memory CacheRepository for tests.
type fakeCache struct {
	data map[string][]byte
	err  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	data, ok := c.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return data, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.data[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data[key]
	return ok, nil
}

// fakeBasketRepository counts database reads.
type fakeBasketRepository struct {
	outbound.BasketRepository
	carts map[uuid.UUID]*basket.ShoppingCart
	reads int
}

func newFakeBasketRepository() *fakeBasketRepository {
	return &fakeBasketRepository{carts: make(map[uuid.UUID]*basket.ShoppingCart)}
}

func (r *fakeBasketRepository) Create(ctx context.Context, cart *basket.ShoppingCart) error {
	r.carts[cart.ID()] = cart
	return nil
}

func (r *fakeBasketRepository) Update(ctx context.Context, cart *basket.ShoppingCart) error {
	if _, ok := r.carts[cart.ID()]; !ok {
		return basket.ErrCartNotFound
	}
	r.carts[cart.ID()] = cart
	return nil
}

func (r *fakeBasketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.carts, id)
	return nil
}

func (r *fakeBasketRepository) FindByID(ctx context.Context, id uuid.UUID) (*basket.ShoppingCart, error) {
	r.reads++
	cart, ok := r.carts[id]
	if !ok {
		return nil, basket.ErrCartNotFound
	}
	return cart, nil
}

func newTestCart(t *testing.T) *basket.ShoppingCart {
	t.Helper()
	cart := basket.NewShoppingCart(uuid.New())
	require.NoError(t, cart.AddItem(uuid.New(), "Espresso Beans", decimal.RequireFromString("14.90"), 2, decimal.RequireFromString("14.90")))
	cart.DrainEvents()
	return cart
}

func TestFindByIDServesFromCache(t *testing.T) {
	db := newFakeBasketRepository()
	fc := newFakeCache()
	repo := NewCachedBasketRepository(db, fc, 0, zap.NewNop())
	ctx := context.Background()

	cart := newTestCart(t)
	require.NoError(t, repo.Create(ctx, cart))
	assert.Empty(t, fc.data, "writes must not prime the cache")

	loaded, err := repo.FindByID(ctx, cart.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, db.reads, "first read goes to the database")
	assert.Equal(t, cart.ID(), loaded.ID())
	assert.True(t, cart.Total().Equal(loaded.Total()))
	require.Len(t, loaded.Items(), 1)
	assert.Equal(t, 2, loaded.Items()[0].Quantity())

	_, err = repo.FindByID(ctx, cart.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, db.reads, "second read is served from the primed cache")
}

func TestFindByIDFallsBackToDatabase(t *testing.T) {
	db := newFakeBasketRepository()
	fc := newFakeCache()
	repo := NewCachedBasketRepository(db, fc, 0, zap.NewNop())
	ctx := context.Background()

	cart := newTestCart(t)
	db.carts[cart.ID()] = cart

	loaded, err := repo.FindByID(ctx, cart.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, db.reads)
	assert.Equal(t, cart.ID(), loaded.ID())

	// Second read is served from the primed cache.
	_, err = repo.FindByID(ctx, cart.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, db.reads)
}

func TestCacheFailureDegradesToDatabase(t *testing.T) {
	db := newFakeBasketRepository()
	fc := newFakeCache()
	fc.err = errors.New("redis down")
	repo := NewCachedBasketRepository(db, fc, 0, zap.NewNop())
	ctx := context.Background()

	cart := newTestCart(t)
	db.carts[cart.ID()] = cart

	loaded, err := repo.FindByID(ctx, cart.ID())
	require.NoError(t, err)
	assert.Equal(t, cart.ID(), loaded.ID())
}

func TestUpdateInvalidatesCachedSnapshot(t *testing.T) {
	db := newFakeBasketRepository()
	fc := newFakeCache()
	repo := NewCachedBasketRepository(db, fc, 0, zap.NewNop())
	ctx := context.Background()

	cart := newTestCart(t)
	require.NoError(t, repo.Create(ctx, cart))

	// Prime the cache with the committed state.
	_, err := repo.FindByID(ctx, cart.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, db.reads)

	productID := cart.Items()[0].ProductID()
	require.NoError(t, cart.UpdateItemQuantity(productID, 5))
	cart.DrainEvents()
	require.NoError(t, repo.Update(ctx, cart))
	assert.Empty(t, fc.data, "update must drop the stale snapshot")

	loaded, err := repo.FindByID(ctx, cart.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, db.reads, "read after update goes back to the database")
	assert.Equal(t, 5, loaded.Items()[0].Quantity())
}

func TestDeleteDropsCacheEntry(t *testing.T) {
	db := newFakeBasketRepository()
	fc := newFakeCache()
	repo := NewCachedBasketRepository(db, fc, 0, zap.NewNop())
	ctx := context.Background()

	cart := newTestCart(t)
	require.NoError(t, repo.Create(ctx, cart))
	require.NoError(t, repo.Delete(ctx, cart.ID()))

	_, err := repo.FindByID(ctx, cart.ID())
	assert.ErrorIs(t, err, basket.ErrCartNotFound)
}

// copyCart rehydrates an independent instance so mutating the copy does not
// touch the fake repository's stored cart.
func copyCart(cart *basket.ShoppingCart) *basket.ShoppingCart {
	items := make([]*basket.CartItem, 0, len(cart.Items()))
	for _, item := range cart.Items() {
		items = append(items, basket.RehydrateCartItem(item.ID(), item.CartID(), item.ProductID(), item.ProductName(), item.ProductPrice(), item.UnitPrice(), item.Quantity(), item.AddedAt()))
	}
	return basket.RehydrateCart(cart.ID(), cart.CustomerID(), cart.Status(), items, cart.Discounts())
}

func TestFailedCommitDoesNotLeakIntoCache(t *testing.T) {
	db := newFakeBasketRepository()
	fc := newFakeCache()
	repo := NewCachedBasketRepository(db, fc, 0, zap.NewNop())
	ctx := context.Background()

	stored := newTestCart(t)
	db.carts[stored.ID()] = stored

	// Prime the cache with the committed state.
	_, err := repo.FindByID(ctx, stored.ID())
	require.NoError(t, err)

	working := copyCart(stored)
	productID := working.Items()[0].ProductID()
	require.True(t, working.UpdateItemPrice(productID, decimal.RequireFromString("80.00")))

	// The runner executes the persist functions, then rolls the store back
	// and reports a commit failure.
	runner := gormpersist.TxRunner(func(ctx context.Context, fn func(ctx context.Context) error) error {
		if err := fn(ctx); err != nil {
			return err
		}
		db.carts[stored.ID()] = stored
		return errors.New("connection reset during commit")
	})
	factory := gormpersist.NewUnitOfWorkFactory(gormpersist.NewSaveInterceptor(nopDispatcher{}, zap.NewNop()), runner)

	uow := factory(outbound.DispatchAndWait)
	uow.MarkDirty(working, func(ctx context.Context) error { return repo.Update(ctx, working) })
	require.Error(t, uow.Commit(ctx))

	loaded, err := repo.FindByID(ctx, stored.ID())
	require.NoError(t, err)
	assert.True(t, loaded.Items()[0].UnitPrice().Equal(decimal.RequireFromString("14.90")),
		"rolled-back price must not be served from cache")
}

func TestCorruptCacheEntryIsDropped(t *testing.T) {
	db := newFakeBasketRepository()
	fc := newFakeCache()
	repo := NewCachedBasketRepository(db, fc, 0, zap.NewNop())
	ctx := context.Background()

	cart := newTestCart(t)
	db.carts[cart.ID()] = cart
	fc.data[cartKey(cart.ID())] = []byte("{not json")

	loaded, err := repo.FindByID(ctx, cart.ID())
	require.NoError(t, err)
	assert.Equal(t, 1, db.reads)
	assert.Equal(t, cart.ID(), loaded.ID())
}
