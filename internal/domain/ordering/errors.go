package ordering

import "errors"

// Domain validation and state errors for the ordering module.
var (
	ErrEmptyOrderNumber   = errors.New("order number cannot be empty")
	ErrNoOrderItems       = errors.New("order must contain at least one item")
	ErrInvalidQuantity    = errors.New("item quantity must be greater than zero")
	ErrNegativeUnitPrice  = errors.New("item unit price cannot be negative")
	ErrEmptyProductName   = errors.New("item product name cannot be empty")
	ErrOrderNotPending    = errors.New("order is no longer pending")
	ErrOrderNotConfirmed  = errors.New("order has not been confirmed")
	ErrOrderAlreadyFinal  = errors.New("order is already in a final state")
	ErrOrderNotFound      = errors.New("order not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)
