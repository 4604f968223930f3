package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/domain/basket"
	"github.com/modushop/v2/internal/ports/outbound"
)

// DefaultCartTTL bounds how stale a cached cart can get if an invalidation
// is lost.
const DefaultCartTTL = 15 * time.Minute

// cartSnapshot is the cache wire format for a cart.
type cartSnapshot struct {
	ID         uuid.UUID          `json:"id"`
	CustomerID uuid.UUID          `json:"customer_id"`
	Status     string             `json:"status"`
	Items      []itemSnapshot     `json:"items"`
	Discounts  []discountSnapshot `json:"discounts"`
}

type itemSnapshot struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	AddedAt      time.Time       `json:"added_at"`
}

type discountSnapshot struct {
	Code      string          `json:"code"`
	Kind      string          `json:"kind"`
	Value     decimal.Decimal `json:"value"`
	AppliedAt time.Time       `json:"applied_at"`
}

func snapshotCart(cart *basket.ShoppingCart) cartSnapshot {
	snap := cartSnapshot{
		ID:         cart.ID(),
		CustomerID: cart.CustomerID(),
		Status:     string(cart.Status()),
	}
	for _, item := range cart.Items() {
		snap.Items = append(snap.Items, itemSnapshot{
			ID:           item.ID(),
			ProductID:    item.ProductID(),
			ProductName:  item.ProductName(),
			ProductPrice: item.ProductPrice(),
			UnitPrice:    item.UnitPrice(),
			Quantity:     item.Quantity(),
			AddedAt:      item.AddedAt(),
		})
	}
	for _, discount := range cart.Discounts() {
		snap.Discounts = append(snap.Discounts, discountSnapshot{
			Code:      discount.Code,
			Kind:      discount.Kind,
			Value:     discount.Value,
			AppliedAt: discount.AppliedAt,
		})
	}
	return snap
}

func restoreCart(snap cartSnapshot) *basket.ShoppingCart {
	items := make([]*basket.CartItem, 0, len(snap.Items))
	for _, item := range snap.Items {
		items = append(items, basket.RehydrateCartItem(
			item.ID, snap.ID, item.ProductID, item.ProductName,
			item.ProductPrice, item.UnitPrice, item.Quantity, item.AddedAt))
	}
	discounts := make([]basket.CartDiscount, 0, len(snap.Discounts))
	for _, discount := range snap.Discounts {
		discounts = append(discounts, basket.CartDiscount{
			Code:      discount.Code,
			Kind:      discount.Kind,
			Value:     discount.Value,
			AppliedAt: discount.AppliedAt,
		})
	}
	return basket.RehydrateCart(snap.ID, snap.CustomerID, basket.CartStatus(snap.Status), items, discounts)
}

func cartKey(id uuid.UUID) string {
	return "basket:cart:" + id.String()
}

// CachedBasketRepository wraps the persistent basket repository with a
// cache-aside layer keyed by cart ID. Only reads prime the cache; writes
// invalidate, because they run inside a unit-of-work transaction that may
// still roll back, and a primed entry would then serve state that never
// committed. Reads by customer and the price reconciliation fan-out bypass
// the cache. Cache failures degrade to the database, never to an error.
type CachedBasketRepository struct {
	inner  outbound.BasketRepository
	cache  outbound.CacheRepository
	logger *zap.Logger
	ttl    time.Duration
}

// NewCachedBasketRepository creates the decorator. A non-positive ttl falls
// back to DefaultCartTTL.
func NewCachedBasketRepository(inner outbound.BasketRepository, cacheRepo outbound.CacheRepository, ttl time.Duration, logger *zap.Logger) outbound.BasketRepository {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &CachedBasketRepository{
		inner:  inner,
		cache:  cacheRepo,
		logger: logger.Named("cached-basket"),
		ttl:    ttl,
	}
}

// Create writes through to the database and drops any cached snapshot.
// The commit may still fail after this returns, so the write path never
// primes; the next read picks up whatever state the database settled on.
func (r *CachedBasketRepository) Create(ctx context.Context, cart *basket.ShoppingCart) error {
	if err := r.inner.Create(ctx, cart); err != nil {
		return err
	}
	r.invalidate(ctx, cart.ID())
	return nil
}

// Update writes through and drops the cached snapshot.
func (r *CachedBasketRepository) Update(ctx context.Context, cart *basket.ShoppingCart) error {
	if err := r.inner.Update(ctx, cart); err != nil {
		return err
	}
	r.invalidate(ctx, cart.ID())
	return nil
}

// Delete removes the cart and its cache entry.
func (r *CachedBasketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// FindByID serves from cache when possible, falling back to the database.
// Reads run outside the unit of work, so priming here only ever stores
// committed state.
func (r *CachedBasketRepository) FindByID(ctx context.Context, id uuid.UUID) (*basket.ShoppingCart, error) {
	data, err := r.cache.Get(ctx, cartKey(id))
	if err == nil {
		var snap cartSnapshot
		if err := json.Unmarshal(data, &snap); err == nil {
			return restoreCart(snap), nil
		}
		r.logger.Warn("dropping corrupt cached cart", zap.String("cart_id", id.String()))
		_ = r.cache.Delete(ctx, cartKey(id))
	}

	cart, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.prime(ctx, cart)
	return cart, nil
}

// FindActiveByCustomerID always hits the database; the active-cart lookup
// changes as carts check out and is not worth a second cache key.
func (r *CachedBasketRepository) FindActiveByCustomerID(ctx context.Context, customerID uuid.UUID) (*basket.ShoppingCart, error) {
	return r.inner.FindActiveByCustomerID(ctx, customerID)
}

// FindActiveCartsByProduct always hits the database; the reconciliation
// fan-out must see every affected cart.
func (r *CachedBasketRepository) FindActiveCartsByProduct(ctx context.Context, productID uuid.UUID) ([]*basket.ShoppingCart, error) {
	return r.inner.FindActiveCartsByProduct(ctx, productID)
}

func (r *CachedBasketRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, cartKey(id)); err != nil {
		r.logger.Warn("failed to drop cached cart", zap.String("cart_id", id.String()), zap.Error(err))
	}
}

func (r *CachedBasketRepository) prime(ctx context.Context, cart *basket.ShoppingCart) {
	data, err := json.Marshal(snapshotCart(cart))
	if err != nil {
		r.logger.Warn("failed to encode cart snapshot", zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, cartKey(cart.ID()), data, r.ttl); err != nil {
		r.logger.Warn("failed to cache cart", zap.String("cart_id", cart.ID().String()), zap.Error(err))
	}
}
