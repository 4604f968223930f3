package events

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/modushop/v2/internal/domain/catalog"
	"github.com/modushop/v2/internal/domain/ordering"
	"github.com/modushop/v2/internal/domain/shared"
	"github.com/modushop/v2/internal/ports/outbound"
)

// ProductCacheKey is the cache key for a single product snapshot.
func ProductCacheKey(productID fmt.Stringer) string {
	return "catalog:product:" + productID.String()
}

// CatalogCacheInvalidator drops cached product snapshots when the catalog
// changes. Invalidation failures are returned so the dispatcher logs them;
// the cache entry then expires by TTL instead.
type CatalogCacheInvalidator struct {
	cache  outbound.CacheRepository
	logger *zap.Logger
}

// NewCatalogCacheInvalidator creates the invalidator.
func NewCatalogCacheInvalidator(cache outbound.CacheRepository, logger *zap.Logger) *CatalogCacheInvalidator {
	return &CatalogCacheInvalidator{
		cache:  cache,
		logger: logger.Named("cache-invalidator"),
	}
}

// RegisterOn subscribes the invalidator to every product mutation event.
func (h *CatalogCacheInvalidator) RegisterOn(dispatcher shared.EventDispatcher) {
	for _, name := range []string{
		catalog.EventProductPriceChanged,
		catalog.EventProductCategoriesUpdated,
		catalog.EventProductDeleted,
		catalog.EventProductRestored,
	} {
		dispatcher.Register(name, h.Handle)
	}
}

// Handle drops the cached snapshot for the affected product.
func (h *CatalogCacheInvalidator) Handle(ctx context.Context, event shared.DomainEvent) error {
	var productID fmt.Stringer
	switch e := event.(type) {
	case catalog.ProductPriceChangedEvent:
		productID = e.ProductID
	case catalog.ProductCategoriesUpdatedEvent:
		productID = e.ProductID
	case catalog.ProductDeletedEvent:
		productID = e.ProductID
	case catalog.ProductRestoredEvent:
		productID = e.ProductID
	default:
		return nil
	}

	if err := h.cache.Delete(ctx, ProductCacheKey(productID)); err != nil {
		return fmt.Errorf("failed to invalidate product cache: %w", err)
	}
	h.logger.Debug("invalidated product cache", zap.String("product_id", productID.String()))
	return nil
}

// OrderNotifier records customer-facing order lifecycle notifications. The
// notification channel itself is out of scope; the handler keeps the
// audit trail of what would be sent.
type OrderNotifier struct {
	logger *zap.Logger
}

// NewOrderNotifier creates the notifier.
func NewOrderNotifier(logger *zap.Logger) *OrderNotifier {
	return &OrderNotifier{logger: logger.Named("order-notifier")}
}

// RegisterOn subscribes the notifier to order lifecycle events.
func (h *OrderNotifier) RegisterOn(dispatcher shared.EventDispatcher) {
	dispatcher.Register(ordering.EventOrderPlaced, h.Handle)
	dispatcher.Register(ordering.EventOrderConfirmed, h.Handle)
	dispatcher.Register(ordering.EventOrderShipped, h.Handle)
	dispatcher.Register(ordering.EventOrderCancelled, h.Handle)
}

// Handle logs the notification for one order lifecycle event.
func (h *OrderNotifier) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case ordering.OrderPlacedEvent:
		h.logger.Info("order placed",
			zap.String("order_number", e.OrderNumber),
			zap.String("customer_id", e.CustomerID.String()),
			zap.String("total", e.Total.String()),
		)
	case ordering.OrderConfirmedEvent:
		h.logger.Info("order confirmed", zap.String("order_number", e.OrderNumber))
	case ordering.OrderShippedEvent:
		h.logger.Info("order shipped", zap.String("order_number", e.OrderNumber))
	case ordering.OrderCancelledEvent:
		h.logger.Info("order cancelled",
			zap.String("order_number", e.OrderNumber),
			zap.String("reason", e.Reason),
		)
	}
	return nil
}
