package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductPriceChangedIntegrationEvent(t *testing.T) {
	productID := uuid.New()
	event := NewProductPriceChangedIntegrationEvent(
		productID, "Espresso Beans", []string{"coffee"}, "Dark roast", "beans.png",
		decimal.RequireFromString("14.90"))

	assert.NotEqual(t, uuid.Nil, event.EventID)
	assert.Equal(t, TopicProductPriceChanged, event.EventType)
	assert.Equal(t, time.UTC, event.CreationDate.Location())
	assert.Equal(t, productID, event.ProductID)

	other := NewProductPriceChangedIntegrationEvent(
		productID, "Espresso Beans", []string{"coffee"}, "Dark roast", "beans.png",
		decimal.RequireFromString("14.90"))
	assert.NotEqual(t, event.EventID, other.EventID, "each event instance gets its own identity")
}

func TestDecodeProductPriceChanged(t *testing.T) {
	t.Run("round trips the wire shape", func(t *testing.T) {
		event := NewProductPriceChangedIntegrationEvent(
			uuid.New(), "Moka Pot", []string{"coffee", "equipment"}, "Classic 6-cup", "moka.png",
			decimal.RequireFromString("29.90"))

		payload, err := json.Marshal(event)
		require.NoError(t, err)

		decoded, err := DecodeProductPriceChanged(payload)
		require.NoError(t, err)

		assert.Equal(t, event.EventID, decoded.EventID)
		assert.Equal(t, event.EventType, decoded.EventType)
		assert.Equal(t, event.ProductID, decoded.ProductID)
		assert.Equal(t, event.Category, decoded.Category)
		assert.True(t, event.Price.Equal(decoded.Price))
	})

	t.Run("ignores unknown fields from newer producers", func(t *testing.T) {
		payload := []byte(`{
			"eventId": "7b0f4a3c-9a1e-4a0e-8d39-2f4f7f2b9a11",
			"creationDate": "2026-08-30T10:15:00Z",
			"eventType": "catalog.product.price-changed",
			"productId": "1f0e4a3c-9a1e-4a0e-8d39-2f4f7f2b9a22",
			"name": "Grinder",
			"category": ["equipment"],
			"description": "Burr grinder",
			"imageFile": "grinder.png",
			"price": 79.00,
			"currency": "EUR"
		}`)

		decoded, err := DecodeProductPriceChanged(payload)
		require.NoError(t, err)
		assert.Equal(t, "Grinder", decoded.Name)
		assert.True(t, decoded.Price.Equal(decimal.RequireFromString("79.00")))
	})

	t.Run("rejects malformed payloads", func(t *testing.T) {
		_, err := DecodeProductPriceChanged([]byte(`{not json`))
		assert.Error(t, err)
	})
}
