// Package contracts defines the integration events exchanged between modules
// over the message bus. These are wire-level types: flat, JSON-tagged and
// self-describing, with no behavior beyond construction and decoding.
package contracts

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bus topics, one per integration event type.
const (
	TopicProductPriceChanged = "catalog.product.price-changed"
)

// IntegrationEvent is the envelope embedded in every integration event. The
// identifier and creation time are assigned once, at construction, so a
// redelivered message keeps its original identity.
type IntegrationEvent struct {
	EventID      uuid.UUID `json:"eventId"`
	CreationDate time.Time `json:"creationDate"`
	EventType    string    `json:"eventType"`
}

// NewIntegrationEvent builds a fresh envelope for the given event type.
func NewIntegrationEvent(eventType string) IntegrationEvent {
	return IntegrationEvent{
		EventID:      uuid.New(),
		CreationDate: time.Now().UTC(),
		EventType:    eventType,
	}
}

// ProductPriceChangedIntegrationEvent announces a catalog price change to
// other modules. It carries the full current product snapshot, not a delta,
// so consumers can reconcile denormalized copies by overwrite.
type ProductPriceChangedIntegrationEvent struct {
	IntegrationEvent

	ProductID   uuid.UUID       `json:"productId"`
	Name        string          `json:"name"`
	Category    []string        `json:"category"`
	Description string          `json:"description"`
	ImageFile   string          `json:"imageFile"`
	Price       decimal.Decimal `json:"price"`
}

// NewProductPriceChangedIntegrationEvent builds the event from the current
// product state.
func NewProductPriceChangedIntegrationEvent(productID uuid.UUID, name string, category []string, description, imageFile string, price decimal.Decimal) ProductPriceChangedIntegrationEvent {
	return ProductPriceChangedIntegrationEvent{
		IntegrationEvent: NewIntegrationEvent(TopicProductPriceChanged),
		ProductID:        productID,
		Name:             name,
		Category:         category,
		Description:      description,
		ImageFile:        imageFile,
		Price:            price,
	}
}

// DecodeProductPriceChanged decodes the wire payload. Unknown fields are
// ignored so newer producers stay compatible with older consumers.
func DecodeProductPriceChanged(payload []byte) (ProductPriceChangedIntegrationEvent, error) {
	var event ProductPriceChangedIntegrationEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return ProductPriceChangedIntegrationEvent{}, fmt.Errorf("failed to decode product price changed event: %w", err)
	}
	return event, nil
}
