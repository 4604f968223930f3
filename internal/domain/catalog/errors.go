package catalog

import "errors"

// Domain errors for product operations

var (
	ErrEmptyProductName      = errors.New("product name cannot be empty")
	ErrProductNameTooLong    = errors.New("product name must not exceed 200 characters")
	ErrEmptyDescription      = errors.New("product description cannot be empty")
	ErrDescriptionTooLong    = errors.New("product description must not exceed 1000 characters")
	ErrInvalidPrice          = errors.New("product price must be greater than zero")
	ErrEmptyImageFile        = errors.New("product image file cannot be empty")
	ErrEmptyCategory         = errors.New("category cannot be empty")
	ErrCategoryTooLong       = errors.New("category name must not exceed 100 characters")
	ErrNegativeStock         = errors.New("stock quantity cannot be negative")
	ErrInvalidDiscountRange  = errors.New("discount percentage must be between 0 and 100")
	ErrProductNotFound       = errors.New("product not found")
)
