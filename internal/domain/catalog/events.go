package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modushop/v2/internal/domain/shared"
)

// Event names used for dispatcher registration.
const (
	EventProductCreated           = "catalog.product.created"
	EventProductPriceChanged      = "catalog.product.price-changed"
	EventProductCategoriesUpdated = "catalog.product.categories-updated"
	EventProductDeleted           = "catalog.product.deleted"
	EventProductRestored          = "catalog.product.restored"
)

// ProductCreatedEvent is raised when a new product enters the catalog.
type ProductCreatedEvent struct {
	shared.BaseEvent
	ProductID  uuid.UUID
	Name       string
	Price      decimal.Decimal
	Categories []string
}

func (e ProductCreatedEvent) EventName() string { return EventProductCreated }

// ProductPriceChangedEvent is raised only when the price actually changes.
type ProductPriceChangedEvent struct {
	shared.BaseEvent
	ProductID uuid.UUID
	OldPrice  decimal.Decimal
	NewPrice  decimal.Decimal
	Reason    string
}

func (e ProductPriceChangedEvent) EventName() string { return EventProductPriceChanged }

// ProductCategoriesUpdatedEvent carries both the old and new category lists.
type ProductCategoriesUpdatedEvent struct {
	shared.BaseEvent
	ProductID     uuid.UUID
	OldCategories []string
	NewCategories []string
}

func (e ProductCategoriesUpdatedEvent) EventName() string { return EventProductCategoriesUpdated }

// ProductDeletedEvent is raised when a product is soft-deleted.
type ProductDeletedEvent struct {
	shared.BaseEvent
	ProductID uuid.UUID
	Name      string
}

func (e ProductDeletedEvent) EventName() string { return EventProductDeleted }

// ProductRestoredEvent is raised when a soft-deleted product is restored.
type ProductRestoredEvent struct {
	shared.BaseEvent
	ProductID uuid.UUID
	Name      string
}

func (e ProductRestoredEvent) EventName() string { return EventProductRestored }
