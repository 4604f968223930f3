// Package basket contains the shopping cart aggregate of the Basket module.
// Carts hold denormalized copies of catalog data (product name and price) on
// purpose: there is no foreign key into the catalog schema, and the copies
// are reconciled through integration events instead.
package basket

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modushop/v2/internal/domain/shared"
)

// CartStatus is the lifecycle state of a shopping cart.
type CartStatus string

const (
	CartStatusActive     CartStatus = "Active"
	CartStatusCheckedOut CartStatus = "CheckedOut"
)

// Discount kinds accepted by ApplyDiscount.
const (
	DiscountKindPercentage = "PERCENTAGE"
	DiscountKindFixed      = "FIXED"
)

// ShoppingCart is the aggregate root of the Basket module.
type ShoppingCart struct {
	shared.AggregateRoot

	id         uuid.UUID
	customerID uuid.UUID
	status     CartStatus
	items      []*CartItem
	discounts  []CartDiscount
}

// NewShoppingCart creates an active cart for a customer and raises the
// created event.
func NewShoppingCart(customerID uuid.UUID) *ShoppingCart {
	cart := &ShoppingCart{
		id:         uuid.New(),
		customerID: customerID,
		status:     CartStatusActive,
	}

	cart.AddEvent(ShoppingCartCreatedEvent{
		BaseEvent:  shared.NewBaseEvent(),
		CartID:     cart.id,
		CustomerID: customerID,
	})

	return cart
}

// RehydrateCart rebuilds a cart from trusted storage with the full item and
// discount lists, bypassing business-rule validation and raising no events.
func RehydrateCart(id, customerID uuid.UUID, status CartStatus, items []*CartItem, discounts []CartDiscount) *ShoppingCart {
	return &ShoppingCart{
		id:         id,
		customerID: customerID,
		status:     status,
		items:      items,
		discounts:  discounts,
	}
}

// ID returns the cart identifier.
func (c *ShoppingCart) ID() uuid.UUID { return c.id }

// CustomerID returns the owning customer.
func (c *ShoppingCart) CustomerID() uuid.UUID { return c.customerID }

// Status returns the cart lifecycle state.
func (c *ShoppingCart) Status() CartStatus { return c.status }

// Items returns the line items. Callers must not mutate them directly.
func (c *ShoppingCart) Items() []*CartItem {
	return append([]*CartItem(nil), c.items...)
}

// Discounts returns the applied discounts.
func (c *ShoppingCart) Discounts() []CartDiscount {
	return append([]CartDiscount(nil), c.discounts...)
}

// SubTotal is the sum of line totals before discounts.
func (c *ShoppingCart) SubTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.items {
		sum = sum.Add(item.TotalPrice())
	}
	return sum
}

// DiscountAmount is the combined discount, each capped at the subtotal.
func (c *ShoppingCart) DiscountAmount() decimal.Decimal {
	subtotal := c.SubTotal()
	sum := decimal.Zero
	for _, d := range c.discounts {
		sum = sum.Add(d.Amount(subtotal))
	}
	return sum
}

// Total is always derived, never stored: subtotal minus discounts.
func (c *ShoppingCart) Total() decimal.Decimal {
	return c.SubTotal().Sub(c.DiscountAmount())
}

// ItemCount is the total quantity across all line items.
func (c *ShoppingCart) ItemCount() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity()
	}
	return count
}

// FindItem returns the line item for a product, or nil.
func (c *ShoppingCart) FindItem(productID uuid.UUID) *CartItem {
	for _, item := range c.items {
		if item.ProductID() == productID {
			return item
		}
	}
	return nil
}

// AddItem puts a product in the cart. If a line item for the product already
// exists its quantity is incremented and the denormalized price and name are
// left untouched; those only change through the reconciliation path.
func (c *ShoppingCart) AddItem(productID uuid.UUID, productName string, productPrice decimal.Decimal, quantity int, unitPrice decimal.Decimal) error {
	if err := c.ensureActive(); err != nil {
		return err
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	if existing := c.FindItem(productID); existing != nil {
		existing.quantity += quantity
		c.AddEvent(CartItemQuantityUpdatedEvent{
			BaseEvent:   shared.NewBaseEvent(),
			CartID:      c.id,
			ProductID:   productID,
			NewQuantity: existing.quantity,
		})
		return nil
	}

	item, err := newCartItem(c.id, productID, productName, productPrice, quantity, unitPrice)
	if err != nil {
		return err
	}
	c.items = append(c.items, item)

	c.AddEvent(CartItemAddedEvent{
		BaseEvent:   shared.NewBaseEvent(),
		CartID:      c.id,
		ProductID:   productID,
		ProductName: item.productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	})

	return nil
}

// RemoveItem removes the matching line item; absent products are a no-op,
// not an error.
func (c *ShoppingCart) RemoveItem(productID uuid.UUID) error {
	if err := c.ensureActive(); err != nil {
		return err
	}

	for i, item := range c.items {
		if item.ProductID() == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.AddEvent(CartItemRemovedEvent{
				BaseEvent:   shared.NewBaseEvent(),
				CartID:      c.id,
				ProductID:   productID,
				ProductName: item.productName,
			})
			return nil
		}
	}
	return nil
}

// UpdateItemQuantity overwrites a line item's quantity. A quantity of zero
// or less is equivalent to removing the item.
func (c *ShoppingCart) UpdateItemQuantity(productID uuid.UUID, quantity int) error {
	if err := c.ensureActive(); err != nil {
		return err
	}

	item := c.FindItem(productID)
	if item == nil {
		return nil
	}

	if quantity <= 0 {
		return c.RemoveItem(productID)
	}

	item.quantity = quantity
	c.AddEvent(CartItemQuantityUpdatedEvent{
		BaseEvent:   shared.NewBaseEvent(),
		CartID:      c.id,
		ProductID:   productID,
		NewQuantity: quantity,
	})
	return nil
}

// UpdateItemPrice overwrites the denormalized prices of the line item for a
// product. Overwrite semantics keep the reconciliation path idempotent under
// duplicate delivery. Returns true when a line item was touched.
func (c *ShoppingCart) UpdateItemPrice(productID uuid.UUID, newPrice decimal.Decimal) bool {
	item := c.FindItem(productID)
	if item == nil {
		return false
	}
	item.productPrice = newPrice
	item.unitPrice = newPrice
	return true
}

// ApplyDiscount applies a discount code, replacing any existing discount
// with the same code.
func (c *ShoppingCart) ApplyDiscount(code, kind string, value decimal.Decimal) error {
	if err := c.ensureActive(); err != nil {
		return err
	}

	discount, err := newCartDiscount(code, kind, value)
	if err != nil {
		return err
	}

	kept := c.discounts[:0]
	for _, d := range c.discounts {
		if d.Code != discount.Code {
			kept = append(kept, d)
		}
	}
	c.discounts = append(kept, discount)

	c.AddEvent(CartDiscountAppliedEvent{
		BaseEvent:     shared.NewBaseEvent(),
		CartID:        c.id,
		DiscountCode:  discount.Code,
		DiscountKind:  discount.Kind,
		DiscountValue: discount.Value,
	})
	return nil
}

// Clear removes all items and discounts.
func (c *ShoppingCart) Clear() error {
	if err := c.ensureActive(); err != nil {
		return err
	}

	c.items = nil
	c.discounts = nil

	c.AddEvent(ShoppingCartClearedEvent{
		BaseEvent:  shared.NewBaseEvent(),
		CartID:     c.id,
		CustomerID: c.customerID,
	})
	return nil
}

// Checkout is the terminal transition: it fails on an empty or non-active
// cart, and after it succeeds no further mutation method can.
func (c *ShoppingCart) Checkout() error {
	if err := c.ensureActive(); err != nil {
		return err
	}
	if len(c.items) == 0 {
		return ErrEmptyCartCheckout
	}

	snapshot := make([]CheckedOutItem, len(c.items))
	for i, item := range c.items {
		snapshot[i] = CheckedOutItem{
			ProductID:   item.productID,
			ProductName: item.productName,
			UnitPrice:   item.unitPrice,
			Quantity:    item.quantity,
		}
	}

	c.status = CartStatusCheckedOut

	c.AddEvent(ShoppingCartCheckedOutEvent{
		BaseEvent:  shared.NewBaseEvent(),
		CartID:     c.id,
		CustomerID: c.customerID,
		Total:      c.Total(),
		ItemCount:  c.ItemCount(),
		Items:      snapshot,
	})
	return nil
}

func (c *ShoppingCart) ensureActive() error {
	if c.status != CartStatusActive {
		return ErrCartNotActive
	}
	return nil
}

// CartItem is one line in a cart. ProductID is a value reference into the
// catalog, not a foreign key; name and prices are denormalized copies.
type CartItem struct {
	id           uuid.UUID
	cartID       uuid.UUID
	productID    uuid.UUID
	productName  string
	productPrice decimal.Decimal
	unitPrice    decimal.Decimal
	quantity     int
	addedAt      time.Time
}

func newCartItem(cartID, productID uuid.UUID, productName string, productPrice decimal.Decimal, quantity int, unitPrice decimal.Decimal) (*CartItem, error) {
	if strings.TrimSpace(productName) == "" {
		return nil, ErrEmptyProductName
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return nil, ErrNegativeUnitPrice
	}

	return &CartItem{
		id:           uuid.New(),
		cartID:       cartID,
		productID:    productID,
		productName:  strings.TrimSpace(productName),
		productPrice: productPrice,
		unitPrice:    unitPrice,
		quantity:     quantity,
		addedAt:      time.Now().UTC(),
	}, nil
}

// RehydrateCartItem rebuilds a line item from trusted storage.
func RehydrateCartItem(id, cartID, productID uuid.UUID, productName string, productPrice, unitPrice decimal.Decimal, quantity int, addedAt time.Time) *CartItem {
	return &CartItem{
		id:           id,
		cartID:       cartID,
		productID:    productID,
		productName:  productName,
		productPrice: productPrice,
		unitPrice:    unitPrice,
		quantity:     quantity,
		addedAt:      addedAt,
	}
}

// ID returns the line item identifier.
func (i *CartItem) ID() uuid.UUID { return i.id }

// CartID returns the owning cart.
func (i *CartItem) CartID() uuid.UUID { return i.cartID }

// ProductID returns the catalog product this line references.
func (i *CartItem) ProductID() uuid.UUID { return i.productID }

// ProductName returns the denormalized product name.
func (i *CartItem) ProductName() string { return i.productName }

// ProductPrice returns the denormalized catalog price at add (or last
// reconciliation) time.
func (i *CartItem) ProductPrice() decimal.Decimal { return i.productPrice }

// UnitPrice returns the price used for totals.
func (i *CartItem) UnitPrice() decimal.Decimal { return i.unitPrice }

// Quantity returns the line quantity.
func (i *CartItem) Quantity() int { return i.quantity }

// AddedAt returns when the line was first added.
func (i *CartItem) AddedAt() time.Time { return i.addedAt }

// TotalPrice is the derived line total.
func (i *CartItem) TotalPrice() decimal.Decimal {
	return i.unitPrice.Mul(decimal.NewFromInt(int64(i.quantity)))
}

// CartDiscount is an applied discount code.
type CartDiscount struct {
	Code      string
	Kind      string
	Value     decimal.Decimal
	AppliedAt time.Time
}

func newCartDiscount(code, kind string, value decimal.Decimal) (CartDiscount, error) {
	if strings.TrimSpace(code) == "" {
		return CartDiscount{}, ErrEmptyDiscountCode
	}
	if kind != DiscountKindPercentage && kind != DiscountKindFixed {
		return CartDiscount{}, ErrInvalidDiscountKind
	}
	if value.IsNegative() {
		return CartDiscount{}, ErrNegativeDiscount
	}

	return CartDiscount{
		Code:      strings.TrimSpace(code),
		Kind:      kind,
		Value:     value,
		AppliedAt: time.Now().UTC(),
	}, nil
}

// Amount computes the discount against a subtotal, capped at the subtotal.
func (d CartDiscount) Amount(subtotal decimal.Decimal) decimal.Decimal {
	switch d.Kind {
	case DiscountKindPercentage:
		amount := subtotal.Mul(d.Value.Div(decimal.NewFromInt(100)))
		return decimal.Min(amount, subtotal)
	case DiscountKindFixed:
		return decimal.Min(d.Value, subtotal)
	default:
		return decimal.Zero
	}
}
