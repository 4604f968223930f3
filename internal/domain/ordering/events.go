package ordering

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modushop/v2/internal/domain/shared"
)

// Event names used for dispatcher registration.
const (
	EventOrderPlaced    = "ordering.order.placed"
	EventOrderConfirmed = "ordering.order.confirmed"
	EventOrderShipped   = "ordering.order.shipped"
	EventOrderCancelled = "ordering.order.cancelled"
)

// OrderPlacedEvent is raised when a new order is created, typically from a
// checked-out cart.
type OrderPlacedEvent struct {
	shared.BaseEvent
	OrderID     uuid.UUID
	OrderNumber string
	CustomerID  uuid.UUID
	Total       decimal.Decimal
	ItemCount   int
}

func (e OrderPlacedEvent) EventName() string { return EventOrderPlaced }

// OrderConfirmedEvent is raised when a pending order is confirmed.
type OrderConfirmedEvent struct {
	shared.BaseEvent
	OrderID     uuid.UUID
	OrderNumber string
}

func (e OrderConfirmedEvent) EventName() string { return EventOrderConfirmed }

// OrderShippedEvent is raised when a confirmed order ships.
type OrderShippedEvent struct {
	shared.BaseEvent
	OrderID     uuid.UUID
	OrderNumber string
}

func (e OrderShippedEvent) EventName() string { return EventOrderShipped }

// OrderCancelledEvent carries the reason so downstream handlers can notify
// the customer.
type OrderCancelledEvent struct {
	shared.BaseEvent
	OrderID     uuid.UUID
	OrderNumber string
	Reason      string
}

func (e OrderCancelledEvent) EventName() string { return EventOrderCancelled }
