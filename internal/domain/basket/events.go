package basket

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modushop/v2/internal/domain/shared"
)

// Event names used for dispatcher registration.
const (
	EventCartCreated         = "basket.cart.created"
	EventCartItemAdded       = "basket.cart.item-added"
	EventCartItemRemoved     = "basket.cart.item-removed"
	EventCartItemQuantitySet = "basket.cart.item-quantity-updated"
	EventCartDiscountApplied = "basket.cart.discount-applied"
	EventCartCleared         = "basket.cart.cleared"
	EventCartCheckedOut      = "basket.cart.checked-out"
)

// ShoppingCartCreatedEvent is raised when a customer gets a new cart.
type ShoppingCartCreatedEvent struct {
	shared.BaseEvent
	CartID     uuid.UUID
	CustomerID uuid.UUID
}

func (e ShoppingCartCreatedEvent) EventName() string { return EventCartCreated }

// CartItemAddedEvent is raised when a new line item appears in the cart.
type CartItemAddedEvent struct {
	shared.BaseEvent
	CartID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (e CartItemAddedEvent) EventName() string { return EventCartItemAdded }

// CartItemRemovedEvent is raised when a line item leaves the cart.
type CartItemRemovedEvent struct {
	shared.BaseEvent
	CartID      uuid.UUID
	ProductID   uuid.UUID
	ProductName string
}

func (e CartItemRemovedEvent) EventName() string { return EventCartItemRemoved }

// CartItemQuantityUpdatedEvent is raised when an existing line item's
// quantity changes, including the merge path of AddItem.
type CartItemQuantityUpdatedEvent struct {
	shared.BaseEvent
	CartID      uuid.UUID
	ProductID   uuid.UUID
	NewQuantity int
}

func (e CartItemQuantityUpdatedEvent) EventName() string { return EventCartItemQuantitySet }

// CartDiscountAppliedEvent is raised when a discount code is applied.
type CartDiscountAppliedEvent struct {
	shared.BaseEvent
	CartID        uuid.UUID
	DiscountCode  string
	DiscountKind  string
	DiscountValue decimal.Decimal
}

func (e CartDiscountAppliedEvent) EventName() string { return EventCartDiscountApplied }

// ShoppingCartClearedEvent is raised when all items and discounts are removed.
type ShoppingCartClearedEvent struct {
	shared.BaseEvent
	CartID     uuid.UUID
	CustomerID uuid.UUID
}

func (e ShoppingCartClearedEvent) EventName() string { return EventCartCleared }

// ShoppingCartCheckedOutEvent is the terminal transition of a cart. It
// carries the computed total and item count for downstream modules.
type ShoppingCartCheckedOutEvent struct {
	shared.BaseEvent
	CartID     uuid.UUID
	CustomerID uuid.UUID
	Total      decimal.Decimal
	ItemCount  int
	Items      []CheckedOutItem
}

// CheckedOutItem is the snapshot of one line item at checkout time.
type CheckedOutItem struct {
	ProductID   uuid.UUID
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
}

func (e ShoppingCartCheckedOutEvent) EventName() string { return EventCartCheckedOut }
