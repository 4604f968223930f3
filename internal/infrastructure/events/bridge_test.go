package events

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/contracts"
	"github.com/modushop/v2/internal/domain/catalog"
	"github.com/modushop/v2/internal/domain/shared"
	"github.com/modushop/v2/internal/ports/outbound"
)

type stubProductRepository struct {
	outbound.ProductRepository
	product *catalog.Product
	err     error
}

func (r *stubProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.product, nil
}

type captureBus struct {
	topics   []string
	messages []outbound.Message
	err      error
}

func (b *captureBus) Publish(ctx context.Context, topic string, message outbound.Message) error {
	if b.err != nil {
		return b.err
	}
	b.topics = append(b.topics, topic)
	b.messages = append(b.messages, message)
	return nil
}

func (b *captureBus) Subscribe(ctx context.Context, topic string, handler outbound.MessageHandler) error {
	return nil
}

func (b *captureBus) Close() error { return nil }

func TestPriceChangedBridge(t *testing.T) {
	productID := uuid.New()
	product := catalog.RehydrateProduct(
		productID, "Espresso Beans", "Dark roast", decimal.RequireFromString("11.90"),
		"beans.png", []string{"coffee"}, 10, true, false, nil, "")

	priceChanged := catalog.ProductPriceChangedEvent{
		BaseEvent: shared.NewBaseEvent(),
		ProductID: productID,
		OldPrice:  decimal.RequireFromString("14.90"),
		NewPrice:  decimal.RequireFromString("11.90"),
		Reason:    "summer sale",
	}

	t.Run("publishes full product snapshot", func(t *testing.T) {
		bus := &captureBus{}
		bridge := NewPriceChangedBridge(&stubProductRepository{product: product}, bus, zap.NewNop(), nil)

		require.NoError(t, bridge.Handle(context.Background(), priceChanged))
		require.Len(t, bus.messages, 1)
		assert.Equal(t, []string{contracts.TopicProductPriceChanged}, bus.topics)

		decoded, err := contracts.DecodeProductPriceChanged(bus.messages[0].Payload)
		require.NoError(t, err)
		assert.Equal(t, productID, decoded.ProductID)
		assert.Equal(t, "Espresso Beans", decoded.Name)
		assert.Equal(t, []string{"coffee"}, decoded.Category)
		assert.Equal(t, "Dark roast", decoded.Description)
		assert.Equal(t, "beans.png", decoded.ImageFile)
		assert.True(t, decoded.Price.Equal(decimal.RequireFromString("11.90")))
		assert.Equal(t, contracts.TopicProductPriceChanged, decoded.EventType)
		assert.Equal(t, decoded.EventID.String(), bus.messages[0].ID)
	})

	t.Run("fails when product cannot be loaded", func(t *testing.T) {
		bus := &captureBus{}
		bridge := NewPriceChangedBridge(&stubProductRepository{err: errors.New("gone")}, bus, zap.NewNop(), nil)

		assert.Error(t, bridge.Handle(context.Background(), priceChanged))
		assert.Empty(t, bus.messages)
	})

	t.Run("fails when bus publish fails", func(t *testing.T) {
		bus := &captureBus{err: errors.New("bus down")}
		bridge := NewPriceChangedBridge(&stubProductRepository{product: product}, bus, zap.NewNop(), nil)

		assert.Error(t, bridge.Handle(context.Background(), priceChanged))
	})

	t.Run("rejects unexpected event types", func(t *testing.T) {
		bus := &captureBus{}
		bridge := NewPriceChangedBridge(&stubProductRepository{product: product}, bus, zap.NewNop(), nil)

		assert.Error(t, bridge.Handle(context.Background(), newTestEvent(catalog.EventProductPriceChanged)))
	})
}
