package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BasketService defines the use cases for shopping cart management
type BasketService interface {
	// Commands - operations that modify state
	GetOrCreateCart(ctx context.Context, customerID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, cmd AddCartItemCommand) (*CartDTO, error)
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*CartDTO, error)
	UpdateItemQuantity(ctx context.Context, cmd UpdateCartItemQuantityCommand) (*CartDTO, error)
	ApplyDiscount(ctx context.Context, cmd ApplyCartDiscountCommand) (*CartDTO, error)
	ClearCart(ctx context.Context, cartID uuid.UUID) (*CartDTO, error)
	Checkout(ctx context.Context, cartID uuid.UUID) (*CartDTO, error)

	// ReconcileProductPrice overwrites the denormalized price on every active
	// cart holding the product. Invoked by the price-changed consumer; safe to
	// repeat with the same price.
	ReconcileProductPrice(ctx context.Context, cmd ReconcileProductPriceCommand) error

	// Queries - operations that read state
	GetCart(ctx context.Context, cartID uuid.UUID) (*CartDTO, error)
	GetActiveCartByCustomer(ctx context.Context, customerID uuid.UUID) (*CartDTO, error)
}

// AddCartItemCommand adds a product to a cart, merging with an existing line
// item for the same product.
type AddCartItemCommand struct {
	CartID      uuid.UUID       `validate:"required"`
	ProductID   uuid.UUID       `validate:"required"`
	ProductName string          `validate:"required,max=100"`
	UnitPrice   decimal.Decimal `validate:"required"`
	Quantity    int             `validate:"gt=0"`
}

// UpdateCartItemQuantityCommand sets the absolute quantity of a line item.
// A quantity of zero removes the line.
type UpdateCartItemQuantityCommand struct {
	CartID    uuid.UUID `validate:"required"`
	ProductID uuid.UUID `validate:"required"`
	Quantity  int       `validate:"gte=0"`
}

// ApplyCartDiscountCommand applies a discount code to a cart.
type ApplyCartDiscountCommand struct {
	CartID uuid.UUID       `validate:"required"`
	Code   string          `validate:"required,max=50"`
	Kind   string          `validate:"required,oneof=PERCENTAGE FIXED"`
	Value  decimal.Decimal `validate:"required"`
}

// ReconcileProductPriceCommand carries the new catalog price into the basket
// module.
type ReconcileProductPriceCommand struct {
	ProductID uuid.UUID       `validate:"required"`
	NewPrice  decimal.Decimal `validate:"required"`
}

// CartDTO is the data transfer object for shopping carts
type CartDTO struct {
	ID             uuid.UUID         `json:"id"`
	CustomerID     uuid.UUID         `json:"customer_id"`
	Status         string            `json:"status"`
	Items          []CartItemDTO     `json:"items"`
	Discounts      []CartDiscountDTO `json:"discounts"`
	SubTotal       decimal.Decimal   `json:"sub_total"`
	DiscountAmount decimal.Decimal   `json:"discount_amount"`
	Total          decimal.Decimal   `json:"total"`
	ItemCount      int               `json:"item_count"`
}

// CartItemDTO for cart line item data
type CartItemDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// CartDiscountDTO for applied discount data
type CartDiscountDTO struct {
	Code  string          `json:"code"`
	Kind  string          `json:"kind"`
	Value decimal.Decimal `json:"value"`
}
