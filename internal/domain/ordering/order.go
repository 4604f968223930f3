// Package ordering contains the Order aggregate. Orders are created from
// checked-out shopping carts and move through a small linear lifecycle.
package ordering

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modushop/v2/internal/domain/shared"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusCancelled OrderStatus = "cancelled"
)

// ParseOrderStatus converts a stored status string back into an OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusPending, StatusConfirmed, StatusShipped, StatusCancelled:
		return OrderStatus(s), nil
	default:
		return "", ErrInvalidOrderStatus
	}
}

// Order is the aggregate root of the ordering module. Line items are
// immutable once the order is placed; only the status moves.
type Order struct {
	shared.AggregateRoot

	id          uuid.UUID
	customerID  uuid.UUID
	orderNumber string
	status      OrderStatus
	items       []*OrderItem
	placedAt    time.Time
}

// NewOrder places a new order. The item slice must be non-empty; items are
// built with NewOrderItem so they arrive validated.
func NewOrder(customerID uuid.UUID, orderNumber string, items []*OrderItem) (*Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ErrEmptyOrderNumber
	}
	if len(items) == 0 {
		return nil, ErrNoOrderItems
	}

	order := &Order{
		id:          uuid.New(),
		customerID:  customerID,
		orderNumber: orderNumber,
		status:      StatusPending,
		items:       items,
		placedAt:    time.Now().UTC(),
	}

	order.AddEvent(OrderPlacedEvent{
		BaseEvent:   shared.NewBaseEvent(),
		OrderID:     order.id,
		OrderNumber: order.orderNumber,
		CustomerID:  order.customerID,
		Total:       order.Total(),
		ItemCount:   order.ItemCount(),
	})

	return order, nil
}

// RehydrateOrder rebuilds an order from trusted storage. No validation, no
// events.
func RehydrateOrder(id, customerID uuid.UUID, orderNumber string, status OrderStatus, items []*OrderItem, placedAt time.Time) *Order {
	return &Order{
		id:          id,
		customerID:  customerID,
		orderNumber: orderNumber,
		status:      status,
		items:       items,
		placedAt:    placedAt,
	}
}

// ID returns the order identifier.
func (o *Order) ID() uuid.UUID { return o.id }

// CustomerID returns the owning customer.
func (o *Order) CustomerID() uuid.UUID { return o.customerID }

// OrderNumber returns the human-facing order number.
func (o *Order) OrderNumber() string { return o.orderNumber }

// Status returns the current lifecycle state.
func (o *Order) Status() OrderStatus { return o.status }

// PlacedAt returns when the order was placed.
func (o *Order) PlacedAt() time.Time { return o.placedAt }

// Items returns a copy of the line item slice.
func (o *Order) Items() []*OrderItem {
	out := make([]*OrderItem, len(o.items))
	copy(out, o.items)
	return out
}

// ItemCount returns the total unit count across all line items.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.items {
		count += item.quantity
	}
	return count
}

// Total returns the order total as the sum of line totals.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// Confirm moves a pending order to confirmed.
func (o *Order) Confirm() error {
	if o.status != StatusPending {
		return ErrOrderNotPending
	}
	o.status = StatusConfirmed
	o.AddEvent(OrderConfirmedEvent{
		BaseEvent:   shared.NewBaseEvent(),
		OrderID:     o.id,
		OrderNumber: o.orderNumber,
	})
	return nil
}

// Ship moves a confirmed order to shipped.
func (o *Order) Ship() error {
	if o.status != StatusConfirmed {
		return ErrOrderNotConfirmed
	}
	o.status = StatusShipped
	o.AddEvent(OrderShippedEvent{
		BaseEvent:   shared.NewBaseEvent(),
		OrderID:     o.id,
		OrderNumber: o.orderNumber,
	})
	return nil
}

// Cancel cancels a pending or confirmed order. Shipped and cancelled orders
// are final.
func (o *Order) Cancel(reason string) error {
	if o.status == StatusShipped || o.status == StatusCancelled {
		return ErrOrderAlreadyFinal
	}
	o.status = StatusCancelled
	o.AddEvent(OrderCancelledEvent{
		BaseEvent:   shared.NewBaseEvent(),
		OrderID:     o.id,
		OrderNumber: o.orderNumber,
		Reason:      reason,
	})
	return nil
}

// OrderItem is one priced line of an order. Prices are captured at placement
// time and never follow later catalog changes.
type OrderItem struct {
	id          uuid.UUID
	productID   uuid.UUID
	productName string
	unitPrice   decimal.Decimal
	quantity    int
}

// NewOrderItem validates and builds a line item.
func NewOrderItem(productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int) (*OrderItem, error) {
	productName = strings.TrimSpace(productName)
	if productName == "" {
		return nil, ErrEmptyProductName
	}
	if unitPrice.IsNegative() {
		return nil, ErrNegativeUnitPrice
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return &OrderItem{
		id:          uuid.New(),
		productID:   productID,
		productName: productName,
		unitPrice:   unitPrice,
		quantity:    quantity,
	}, nil
}

// RehydrateOrderItem rebuilds a line item from trusted storage.
func RehydrateOrderItem(id, productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int) *OrderItem {
	return &OrderItem{
		id:          id,
		productID:   productID,
		productName: productName,
		unitPrice:   unitPrice,
		quantity:    quantity,
	}
}

// ID returns the line item identifier.
func (i *OrderItem) ID() uuid.UUID { return i.id }

// ProductID returns the referenced product. This is a value reference, not a
// foreign key into the catalog module.
func (i *OrderItem) ProductID() uuid.UUID { return i.productID }

// ProductName returns the product name captured at placement.
func (i *OrderItem) ProductName() string { return i.productName }

// UnitPrice returns the price captured at placement.
func (i *OrderItem) UnitPrice() decimal.Decimal { return i.unitPrice }

// Quantity returns the ordered quantity.
func (i *OrderItem) Quantity() int { return i.quantity }

// TotalPrice returns unit price times quantity.
func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}
