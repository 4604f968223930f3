// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogService defines the use cases for product management
// This is the primary port that HTTP handlers and other driving adapters will use
type CatalogService interface {
	// Commands - operations that modify state
	CreateProduct(ctx context.Context, cmd CreateProductCommand) (*ProductDTO, error)
	UpdateProductPrice(ctx context.Context, cmd UpdateProductPriceCommand) (*ProductDTO, error)
	ApplyProductDiscount(ctx context.Context, cmd ApplyProductDiscountCommand) (*ProductDTO, error)
	UpdateProductDetails(ctx context.Context, cmd UpdateProductDetailsCommand) (*ProductDTO, error)
	UpdateProductCategories(ctx context.Context, cmd UpdateProductCategoriesCommand) (*ProductDTO, error)
	UpdateProductStock(ctx context.Context, cmd UpdateProductStockCommand) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID, deletedBy string) error
	RestoreProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)

	// Queries - operations that read state
	GetProductByID(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, params PaginationParams) (*ProductList, error)
	GetProductsByCategory(ctx context.Context, category string, params PaginationParams) (*ProductList, error)
	GetProductsByPriceRange(ctx context.Context, min, max decimal.Decimal, params PaginationParams) (*ProductList, error)
	SearchProducts(ctx context.Context, term string, params PaginationParams) (*ProductList, error)
}

// CreateProductCommand contains data for creating a new product
type CreateProductCommand struct {
	Name          string          `validate:"required,max=100"`
	Description   string          `validate:"required,max=500"`
	Price         decimal.Decimal `validate:"required"`
	ImageFile     string          `validate:"required"`
	Categories    []string        `validate:"required,min=1,dive,required,max=50"`
	StockQuantity int             `validate:"gte=0"`
}

// UpdateProductPriceCommand changes a product's price. Reason is recorded on
// the resulting domain event.
type UpdateProductPriceCommand struct {
	ProductID uuid.UUID       `validate:"required"`
	NewPrice  decimal.Decimal `validate:"required"`
	Reason    string          `validate:"max=200"`
}

// ApplyProductDiscountCommand reduces a product's price by a percentage.
type ApplyProductDiscountCommand struct {
	ProductID  uuid.UUID       `validate:"required"`
	Percentage decimal.Decimal `validate:"required"`
	Reason     string          `validate:"max=200"`
}

// UpdateProductDetailsCommand patches basic product fields. Nil pointers mean
// "leave unchanged".
type UpdateProductDetailsCommand struct {
	ProductID   uuid.UUID `validate:"required"`
	Name        *string   `validate:"omitempty,max=100"`
	Description *string   `validate:"omitempty,max=500"`
	ImageFile   *string
}

// UpdateProductCategoriesCommand replaces the product's category set.
type UpdateProductCategoriesCommand struct {
	ProductID  uuid.UUID `validate:"required"`
	Categories []string  `validate:"required,min=1,dive,required,max=50"`
}

// UpdateProductStockCommand sets the absolute stock quantity.
type UpdateProductStockCommand struct {
	ProductID uuid.UUID `validate:"required"`
	Quantity  int       `validate:"gte=0"`
}

// PaginationParams for paginated queries
type PaginationParams struct {
	Page     int `validate:"gte=1"`
	PageSize int `validate:"gte=1,lte=100"`
}

// Offset converts page/page-size into a row offset.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// ProductDTO is the data transfer object for products
type ProductDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageFile     string          `json:"image_file"`
	Categories    []string        `json:"categories"`
	StockQuantity int             `json:"stock_quantity"`
	IsAvailable   bool            `json:"is_available"`
	IsDeleted     bool            `json:"is_deleted"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// ProductList for paginated results
type ProductList struct {
	Products   []ProductDTO `json:"products"`
	Total      int          `json:"total"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalPages int          `json:"total_pages"`
}
