// Package catalog provides the application layer for product management
// This implements the use cases defined in the inbound ports
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/domain/catalog"
	"github.com/modushop/v2/internal/ports/inbound"
	"github.com/modushop/v2/internal/ports/outbound"
	apperrors "github.com/modushop/v2/pkg/errors"
)

// CatalogService implements the catalog use cases
type CatalogService struct {
	products outbound.ProductRepository
	uow      outbound.UnitOfWorkFactory
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	products outbound.ProductRepository,
	uow outbound.UnitOfWorkFactory,
	validate *validator.Validate,
	logger *zap.Logger,
) inbound.CatalogService {
	return &CatalogService{
		products: products,
		uow:      uow,
		validate: validate,
		logger:   logger.Named("catalog-service"),
	}
}

// CreateProduct creates a new product
func (s *CatalogService) CreateProduct(ctx context.Context, cmd inbound.CreateProductCommand) (*inbound.ProductDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	product, err := catalog.NewProduct(cmd.Name, cmd.Description, cmd.Price, cmd.ImageFile, cmd.Categories, cmd.StockQuantity)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	uow := s.uow(outbound.DispatchAndWait)
	uow.MarkNew(product, func(ctx context.Context) error {
		return s.products.Create(ctx, product)
	})
	if err := uow.Commit(ctx); err != nil {
		return nil, apperrors.NewDatabaseError("create product", err)
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID().String()),
		zap.String("name", product.Name()),
	)
	return toProductDTO(product), nil
}

// UpdateProductPrice changes a product's price and, through the event
// pipeline, announces it to the other modules.
func (s *CatalogService) UpdateProductPrice(ctx context.Context, cmd inbound.UpdateProductPriceCommand) (*inbound.ProductDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	product, err := s.loadProduct(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	if err := product.UpdatePrice(cmd.NewPrice, cmd.Reason); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	if err := s.commitUpdate(ctx, product); err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// ApplyProductDiscount reduces a product's price by a percentage
func (s *CatalogService) ApplyProductDiscount(ctx context.Context, cmd inbound.ApplyProductDiscountCommand) (*inbound.ProductDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	product, err := s.loadProduct(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	if err := product.ApplyDiscount(cmd.Percentage, cmd.Reason); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	if err := s.commitUpdate(ctx, product); err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// UpdateProductDetails patches basic product fields
func (s *CatalogService) UpdateProductDetails(ctx context.Context, cmd inbound.UpdateProductDetailsCommand) (*inbound.ProductDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	product, err := s.loadProduct(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		if err := product.UpdateName(*cmd.Name); err != nil {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
	}
	if cmd.Description != nil {
		if err := product.UpdateDescription(*cmd.Description); err != nil {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
	}
	if cmd.ImageFile != nil {
		if err := product.UpdateImageFile(*cmd.ImageFile); err != nil {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
	}

	if err := s.commitUpdate(ctx, product); err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// UpdateProductCategories replaces the product's category set
func (s *CatalogService) UpdateProductCategories(ctx context.Context, cmd inbound.UpdateProductCategoriesCommand) (*inbound.ProductDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	product, err := s.loadProduct(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	product.ClearCategories()
	if err := product.AddCategories(cmd.Categories); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	if err := s.commitUpdate(ctx, product); err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// UpdateProductStock sets the absolute stock quantity
func (s *CatalogService) UpdateProductStock(ctx context.Context, cmd inbound.UpdateProductStockCommand) (*inbound.ProductDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	product, err := s.loadProduct(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	if err := product.UpdateStock(cmd.Quantity); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	if err := s.commitUpdate(ctx, product); err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// DeleteProduct soft-deletes a product. The unit of work converts the
// removal into a flagged update and stamps who deleted it.
func (s *CatalogService) DeleteProduct(ctx context.Context, productID uuid.UUID, deletedBy string) error {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return err
	}

	product.SoftDelete()

	ctx = outbound.WithActor(ctx, deletedBy)
	uow := s.uow(outbound.DispatchAndWait)
	uow.MarkRemoved(product,
		func(ctx context.Context) error { return s.products.Update(ctx, product) },
		func(ctx context.Context) error { return s.products.Delete(ctx, productID) },
	)
	if err := uow.Commit(ctx); err != nil {
		return apperrors.NewDatabaseError("delete product", err)
	}

	s.logger.Info("product deleted",
		zap.String("product_id", productID.String()),
		zap.String("deleted_by", deletedBy),
	)
	return nil
}

// RestoreProduct undoes a soft delete
func (s *CatalogService) RestoreProduct(ctx context.Context, productID uuid.UUID) (*inbound.ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.Restore()

	if err := s.commitUpdate(ctx, product); err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// GetProductByID returns a single product
func (s *CatalogService) GetProductByID(ctx context.Context, productID uuid.UUID) (*inbound.ProductDTO, error) {
	product, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// ListProducts returns non-deleted products with pagination
func (s *CatalogService) ListProducts(ctx context.Context, params inbound.PaginationParams) (*inbound.ProductList, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	products, total, err := s.products.List(ctx, params.Offset(), params.PageSize)
	if err != nil {
		return nil, apperrors.NewDatabaseError("list products", err)
	}
	return toProductList(products, total, params), nil
}

// GetProductsByCategory returns products holding the given category
func (s *CatalogService) GetProductsByCategory(ctx context.Context, category string, params inbound.PaginationParams) (*inbound.ProductList, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	products, total, err := s.products.FindByCategory(ctx, category, params.Offset(), params.PageSize)
	if err != nil {
		return nil, apperrors.NewDatabaseError("find products by category", err)
	}
	return toProductList(products, total, params), nil
}

// GetProductsByPriceRange returns products priced within [min, max]
func (s *CatalogService) GetProductsByPriceRange(ctx context.Context, min, max decimal.Decimal, params inbound.PaginationParams) (*inbound.ProductList, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if max.LessThan(min) {
		return nil, apperrors.NewBadRequestError("max price must not be below min price")
	}
	products, total, err := s.products.FindByPriceRange(ctx, min, max, params.Offset(), params.PageSize)
	if err != nil {
		return nil, apperrors.NewDatabaseError("find products by price range", err)
	}
	return toProductList(products, total, params), nil
}

// SearchProducts returns products whose name or description contains the term
func (s *CatalogService) SearchProducts(ctx context.Context, term string, params inbound.PaginationParams) (*inbound.ProductList, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.NewBadRequestError("search term is required")
	}
	products, total, err := s.products.Search(ctx, term, params.Offset(), params.PageSize)
	if err != nil {
		return nil, apperrors.NewDatabaseError("search products", err)
	}
	return toProductList(products, total, params), nil
}

func (s *CatalogService) loadProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, apperrors.NewProductNotFoundError(id.String())
		}
		return nil, apperrors.NewDatabaseError("load product", err)
	}
	return product, nil
}

func (s *CatalogService) commitUpdate(ctx context.Context, product *catalog.Product) error {
	uow := s.uow(outbound.DispatchAndWait)
	uow.MarkDirty(product, func(ctx context.Context) error {
		return s.products.Update(ctx, product)
	})
	if err := uow.Commit(ctx); err != nil {
		return apperrors.NewDatabaseError("update product", err)
	}
	return nil
}

func toProductDTO(p *catalog.Product) *inbound.ProductDTO {
	return &inbound.ProductDTO{
		ID:            p.ID(),
		Name:          p.Name(),
		Description:   p.Description(),
		Price:         p.Price(),
		ImageFile:     p.ImageFile(),
		Categories:    p.Categories(),
		StockQuantity: p.StockQuantity(),
		IsAvailable:   p.IsAvailable(),
		IsDeleted:     p.IsDeleted(),
		CreatedAt:     p.CreatedAt().Format(time.RFC3339),
		UpdatedAt:     p.LastModifiedAt().Format(time.RFC3339),
	}
}

func toProductList(products []*catalog.Product, total int, params inbound.PaginationParams) *inbound.ProductList {
	list := &inbound.ProductList{
		Products: make([]inbound.ProductDTO, len(products)),
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
	for i, p := range products {
		list.Products[i] = *toProductDTO(p)
	}
	if params.PageSize > 0 {
		list.TotalPages = (total + params.PageSize - 1) / params.PageSize
	}
	return list
}
