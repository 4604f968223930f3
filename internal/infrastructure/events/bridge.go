package events

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/modushop/v2/internal/contracts"
	"github.com/modushop/v2/internal/domain/catalog"
	"github.com/modushop/v2/internal/domain/shared"
	"github.com/modushop/v2/internal/ports/outbound"
)

// PriceChangedBridge turns the in-process price-changed domain event into a
// ProductPriceChanged integration event on the message bus. The bridge loads
// the product so the wire payload carries a full current snapshot rather
// than the delta the domain event holds.
type PriceChangedBridge struct {
	products outbound.ProductRepository
	bus      outbound.MessageBus
	logger   *zap.Logger
	metrics  *Metrics
}

// NewPriceChangedBridge creates the bridge. Metrics may be nil.
func NewPriceChangedBridge(products outbound.ProductRepository, bus outbound.MessageBus, logger *zap.Logger, metrics *Metrics) *PriceChangedBridge {
	return &PriceChangedBridge{
		products: products,
		bus:      bus,
		logger:   logger.Named("price-bridge"),
		metrics:  metrics,
	}
}

// RegisterOn subscribes the bridge to the dispatcher.
func (b *PriceChangedBridge) RegisterOn(dispatcher shared.EventDispatcher) {
	dispatcher.Register(catalog.EventProductPriceChanged, b.Handle)
}

// Handle converts and publishes one price-changed domain event.
func (b *PriceChangedBridge) Handle(ctx context.Context, event shared.DomainEvent) error {
	priceChanged, ok := event.(catalog.ProductPriceChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventName())
	}

	product, err := b.products.FindByID(ctx, priceChanged.ProductID)
	if err != nil {
		return fmt.Errorf("failed to load product %s: %w", priceChanged.ProductID, err)
	}

	integrationEvent := contracts.NewProductPriceChangedIntegrationEvent(
		product.ID(),
		product.Name(),
		product.Categories(),
		product.Description(),
		product.ImageFile(),
		product.Price(),
	)

	payload, err := json.Marshal(integrationEvent)
	if err != nil {
		return fmt.Errorf("failed to encode integration event: %w", err)
	}

	message := outbound.Message{
		ID:        integrationEvent.EventID.String(),
		Type:      integrationEvent.EventType,
		Payload:   payload,
		Timestamp: integrationEvent.CreationDate,
	}

	if err := b.bus.Publish(ctx, contracts.TopicProductPriceChanged, message); err != nil {
		b.metrics.IntegrationPublishFailed(contracts.TopicProductPriceChanged)
		return fmt.Errorf("failed to publish integration event: %w", err)
	}

	b.metrics.IntegrationPublished(contracts.TopicProductPriceChanged)
	b.logger.Info("published price changed integration event",
		zap.String("product_id", product.ID().String()),
		zap.String("event_id", integrationEvent.EventID.String()),
		zap.String("old_price", priceChanged.OldPrice.String()),
		zap.String("new_price", priceChanged.NewPrice.String()),
	)
	return nil
}
