package basket

import (
	"context"

	"go.uber.org/zap"

	"github.com/modushop/v2/internal/contracts"
	"github.com/modushop/v2/internal/ports/inbound"
	"github.com/modushop/v2/internal/ports/outbound"
)

// PriceChangedConsumer subscribes to catalog price-change integration events
// and reconciles the denormalized prices held by active carts. Delivery is
// at-least-once; reconciliation overwrites, so duplicates are harmless.
type PriceChangedConsumer struct {
	baskets inbound.BasketService
	bus     outbound.MessageBus
	logger  *zap.Logger
}

// NewPriceChangedConsumer creates a consumer bound to the basket service.
func NewPriceChangedConsumer(baskets inbound.BasketService, bus outbound.MessageBus, logger *zap.Logger) *PriceChangedConsumer {
	return &PriceChangedConsumer{
		baskets: baskets,
		bus:     bus,
		logger:  logger.Named("price-changed-consumer"),
	}
}

// Start subscribes to the price-changed topic.
func (c *PriceChangedConsumer) Start(ctx context.Context) error {
	return c.bus.Subscribe(ctx, contracts.TopicProductPriceChanged, c.handle)
}

func (c *PriceChangedConsumer) handle(ctx context.Context, msg outbound.Message) error {
	event, err := contracts.DecodeProductPriceChanged(msg.Payload)
	if err != nil {
		// malformed payloads are logged and dropped, not retried
		c.logger.Error("failed to decode price-changed event",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
		return nil
	}

	cmd := inbound.ReconcileProductPriceCommand{
		ProductID: event.ProductID,
		NewPrice:  event.Price,
	}
	if err := c.baskets.ReconcileProductPrice(ctx, cmd); err != nil {
		c.logger.Error("price reconciliation failed",
			zap.String("event_id", event.EventID.String()),
			zap.String("product_id", event.ProductID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("price-changed event consumed",
		zap.String("event_id", event.EventID.String()),
		zap.String("product_id", event.ProductID.String()),
		zap.String("price", event.Price.String()),
	)
	return nil
}
