package gorm

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/modushop/v2/internal/domain/ordering"
	"github.com/modushop/v2/internal/ports/outbound"
)

// OrderRepository implements the order repository interface using GORM
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) outbound.OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order with its items
func (r *OrderRepository) Create(ctx context.Context, order *ordering.Order) error {
	model := OrderToModel(order)
	return dbFromContext(ctx, r.db).WithContext(ctx).Create(model).Error
}

// Update saves an existing order. Line items are immutable after placement,
// so only the order row is written.
func (r *OrderRepository) Update(ctx context.Context, order *ordering.Order) error {
	model := OrderToModel(order)
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&OrderModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":           model.Status,
			"last_modified_at": model.LastModifiedAt,
			"last_modified_by": model.LastModifiedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ordering.ErrOrderNotFound
	}
	return nil
}

// FindByID loads an order with its items
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var model OrderModel
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ordering.ErrOrderNotFound
		}
		return nil, result.Error
	}
	return ModelToOrder(&model)
}

// FindByOrderNumber loads an order by its human-facing number
func (r *OrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*ordering.Order, error) {
	var model OrderModel
	result := dbFromContext(ctx, r.db).WithContext(ctx).
		Preload("Items").
		First(&model, "order_number = ?", orderNumber)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ordering.ErrOrderNotFound
		}
		return nil, result.Error
	}
	return ModelToOrder(&model)
}

// FindByCustomerID returns a customer's orders with pagination
func (r *OrderRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, offset, limit int) ([]*ordering.Order, int, error) {
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&OrderModel{}).
		Where("customer_id = ?", customerID)
	return r.page(query, offset, limit)
}

// FindByStatus returns orders in the given status with pagination
func (r *OrderRepository) FindByStatus(ctx context.Context, status ordering.OrderStatus, offset, limit int) ([]*ordering.Order, int, error) {
	query := dbFromContext(ctx, r.db).WithContext(ctx).
		Model(&OrderModel{}).
		Where("status = ?", string(status))
	return r.page(query, offset, limit)
}

func (r *OrderRepository) page(query *gorm.DB, offset, limit int) ([]*ordering.Order, int, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []OrderModel
	if err := query.Preload("Items").Order("placed_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*ordering.Order, len(models))
	for i := range models {
		order, err := ModelToOrder(&models[i])
		if err != nil {
			return nil, 0, err
		}
		orders[i] = order
	}
	return orders, int(total), nil
}
