package basket

import "errors"

// Domain errors for shopping cart operations

var (
	ErrCartNotActive       = errors.New("cannot modify a cart that is not active")
	ErrEmptyCartCheckout   = errors.New("cannot checkout empty cart")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrNegativeUnitPrice   = errors.New("unit price cannot be negative")
	ErrEmptyProductName    = errors.New("product name cannot be empty")
	ErrEmptyDiscountCode   = errors.New("discount code cannot be empty")
	ErrInvalidDiscountKind = errors.New("discount kind must be PERCENTAGE or FIXED")
	ErrNegativeDiscount    = errors.New("discount value cannot be negative")
	ErrCartNotFound        = errors.New("shopping cart not found")
)
