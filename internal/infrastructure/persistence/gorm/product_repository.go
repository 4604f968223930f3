// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/modushop/v2/internal/domain/catalog"
	"github.com/modushop/v2/internal/ports/outbound"
)

// ProductRepository implements the product repository interface using GORM
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) outbound.ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	model := ProductToModel(product)
	return dbFromContext(ctx, r.db).WithContext(ctx).Create(model).Error
}

// Update saves an existing product
func (r *ProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	model := ProductToModel(product)
	result := dbFromContext(ctx, r.db).WithContext(ctx).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

// Delete physically removes a product row. Products are soft-deletable, so
// the unit of work normally routes removals through Update instead.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).WithContext(ctx).Delete(&ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}

// FindByID loads a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model ProductModel
	result := dbFromContext(ctx, r.db).WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, result.Error
	}
	return ModelToProduct(&model), nil
}

// List returns non-deleted products with pagination
func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]*catalog.Product, int, error) {
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&ProductModel{}).
		Where("is_deleted = ?", false)
	return r.page(query, offset, limit)
}

// FindByCategory returns non-deleted products holding the given category
func (r *ProductRepository) FindByCategory(ctx context.Context, category string, offset, limit int) ([]*catalog.Product, int, error) {
	// Categories are stored as a JSON array; a LIKE match on the quoted
	// value avoids a join table for what is a small, flat tag list.
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&ProductModel{}).
		Where("is_deleted = ?", false).
		Where("categories LIKE ?", `%"`+category+`"%`)
	return r.page(query, offset, limit)
}

// FindByPriceRange returns non-deleted products priced within [min, max]
func (r *ProductRepository) FindByPriceRange(ctx context.Context, min, max decimal.Decimal, offset, limit int) ([]*catalog.Product, int, error) {
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&ProductModel{}).
		Where("is_deleted = ?", false).
		Where("price >= ? AND price <= ?", min, max)
	return r.page(query, offset, limit)
}

// Search returns non-deleted products whose name or description contains the
// term, case-insensitively.
func (r *ProductRepository) Search(ctx context.Context, term string, offset, limit int) ([]*catalog.Product, int, error) {
	pattern := "%" + term + "%"
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&ProductModel{}).
		Where("is_deleted = ?", false).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	return r.page(query, offset, limit)
}

func (r *ProductRepository) page(query *gorm.DB, offset, limit int) ([]*catalog.Product, int, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []ProductModel
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	products := make([]*catalog.Product, len(models))
	for i := range models {
		products[i] = ModelToProduct(&models[i])
	}
	return products, int(total), nil
}
