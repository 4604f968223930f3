package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modushop/v2/internal/domain/basket"
	"github.com/modushop/v2/internal/ports/outbound"
)

// BasketRepository implements the basket repository interface using GORM
type BasketRepository struct {
	db *gorm.DB
}

// NewBasketRepository creates a new basket repository
func NewBasketRepository(db *gorm.DB) outbound.BasketRepository {
	return &BasketRepository{db: db}
}

// Create inserts a new cart with its items and discounts
func (r *BasketRepository) Create(ctx context.Context, cart *basket.ShoppingCart) error {
	model := CartToModel(cart)
	return dbFromContext(ctx, r.db).WithContext(ctx).Create(model).Error
}

// Update saves a cart. Line items and discounts are replaced wholesale; the
// aggregate is small and the write path stays simple.
func (r *BasketRepository) Update(ctx context.Context, cart *basket.ShoppingCart) error {
	db := dbFromContext(ctx, r.db).WithContext(ctx)
	model := CartToModel(cart)

	if err := db.Delete(&CartItemModel{}, "cart_id = ?", cart.ID()).Error; err != nil {
		return err
	}
	if err := db.Delete(&CartDiscountModel{}, "cart_id = ?", cart.ID()).Error; err != nil {
		return err
	}

	result := db.Session(&gorm.Session{FullSaveAssociations: true}).Save(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return basket.ErrCartNotFound
	}
	return nil
}

// Delete removes a cart and its dependents
func (r *BasketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFromContext(ctx, r.db).WithContext(ctx)
	if err := db.Delete(&CartItemModel{}, "cart_id = ?", id).Error; err != nil {
		return err
	}
	if err := db.Delete(&CartDiscountModel{}, "cart_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&CartModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return basket.ErrCartNotFound
	}
	return nil
}

// FindByID loads a cart with its items and discounts
func (r *BasketRepository) FindByID(ctx context.Context, id uuid.UUID) (*basket.ShoppingCart, error) {
	var model CartModel
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		Preload("Discounts").
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, basket.ErrCartNotFound
		}
		return nil, result.Error
	}
	return ModelToCart(&model), nil
}

// FindActiveByCustomerID loads the customer's active cart
func (r *BasketRepository) FindActiveByCustomerID(ctx context.Context, customerID uuid.UUID) (*basket.ShoppingCart, error) {
	var model CartModel
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		Preload("Discounts").
		First(&model, "customer_id = ? AND status = ?", customerID, string(basket.CartStatusActive))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, basket.ErrCartNotFound
		}
		return nil, result.Error
	}
	return ModelToCart(&model), nil
}

// FindActiveCartsByProduct returns every active cart holding a line item for
// the given product. Used by the price reconciliation fan-out.
func (r *BasketRepository) FindActiveCartsByProduct(ctx context.Context, productID uuid.UUID) ([]*basket.ShoppingCart, error) {
	db := dbFromContext(ctx, r.db).WithContext(ctx)

	var cartIDs []uuid.UUID
	err := db.Model(&CartItemModel{}).
		Distinct("cart_items.cart_id").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.product_id = ?", productID).
		Where("carts.status = ?", string(basket.CartStatusActive)).
		Pluck("cart_items.cart_id", &cartIDs).Error
	if err != nil {
		return nil, err
	}
	if len(cartIDs) == 0 {
		return nil, nil
	}

	var models []CartModel
	err = db.Preload("Items").Preload("Discounts").
		Find(&models, "id IN ?", cartIDs).Error
	if err != nil {
		return nil, err
	}

	carts := make([]*basket.ShoppingCart, len(models))
	for i := range models {
		carts[i] = ModelToCart(&models[i])
	}
	return carts, nil
}
