// Package gorm provides mapping between domain entities and GORM models
package gorm

import (
	"github.com/modushop/v2/internal/domain/basket"
	"github.com/modushop/v2/internal/domain/catalog"
	"github.com/modushop/v2/internal/domain/ordering"
)

// ProductToModel converts a domain product to a GORM model
func ProductToModel(p *catalog.Product) *ProductModel {
	return &ProductModel{
		ID:             p.ID(),
		Name:           p.Name(),
		Description:    p.Description(),
		Price:          p.Price(),
		ImageFile:      p.ImageFile(),
		Categories:     StringSlice(p.Categories()),
		StockQuantity:  p.StockQuantity(),
		IsAvailable:    p.IsAvailable(),
		IsDeleted:      p.IsDeleted(),
		DeletedAt:      p.DeletedAt(),
		DeletedBy:      p.DeletedBy(),
		CreatedAt:      p.CreatedAt(),
		CreatedBy:      p.CreatedBy(),
		LastModifiedAt: p.LastModifiedAt(),
		LastModifiedBy: p.LastModifiedBy(),
	}
}

// ModelToProduct converts a GORM model to a domain product
func ModelToProduct(m *ProductModel) *catalog.Product {
	product := catalog.RehydrateProduct(
		m.ID,
		m.Name,
		m.Description,
		m.Price,
		m.ImageFile,
		m.Categories,
		m.StockQuantity,
		m.IsAvailable,
		m.IsDeleted,
		m.DeletedAt,
		m.DeletedBy,
	)
	product.RestoreAudit(m.CreatedAt, m.CreatedBy, m.LastModifiedAt, m.LastModifiedBy)
	return product
}

// CartToModel converts a domain shopping cart to a GORM model
func CartToModel(c *basket.ShoppingCart) *CartModel {
	model := &CartModel{
		ID:             c.ID(),
		CustomerID:     c.CustomerID(),
		Status:         string(c.Status()),
		CreatedAt:      c.CreatedAt(),
		CreatedBy:      c.CreatedBy(),
		LastModifiedAt: c.LastModifiedAt(),
		LastModifiedBy: c.LastModifiedBy(),
	}

	for _, item := range c.Items() {
		model.Items = append(model.Items, CartItemModel{
			ID:           item.ID(),
			CartID:       c.ID(),
			ProductID:    item.ProductID(),
			ProductName:  item.ProductName(),
			ProductPrice: item.ProductPrice(),
			UnitPrice:    item.UnitPrice(),
			Quantity:     item.Quantity(),
			AddedAt:      item.AddedAt(),
		})
	}
	for _, discount := range c.Discounts() {
		model.Discounts = append(model.Discounts, CartDiscountModel{
			CartID:    c.ID(),
			Code:      discount.Code,
			Kind:      discount.Kind,
			Value:     discount.Value,
			AppliedAt: discount.AppliedAt,
		})
	}
	return model
}

// ModelToCart converts a GORM model to a domain shopping cart
func ModelToCart(m *CartModel) *basket.ShoppingCart {
	items := make([]*basket.CartItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, basket.RehydrateCartItem(
			item.ID,
			item.CartID,
			item.ProductID,
			item.ProductName,
			item.ProductPrice,
			item.UnitPrice,
			item.Quantity,
			item.AddedAt,
		))
	}

	discounts := make([]basket.CartDiscount, 0, len(m.Discounts))
	for _, discount := range m.Discounts {
		discounts = append(discounts, basket.CartDiscount{
			Code:      discount.Code,
			Kind:      discount.Kind,
			Value:     discount.Value,
			AppliedAt: discount.AppliedAt,
		})
	}

	cart := basket.RehydrateCart(m.ID, m.CustomerID, basket.CartStatus(m.Status), items, discounts)
	cart.RestoreAudit(m.CreatedAt, m.CreatedBy, m.LastModifiedAt, m.LastModifiedBy)
	return cart
}

// OrderToModel converts a domain order to a GORM model
func OrderToModel(o *ordering.Order) *OrderModel {
	model := &OrderModel{
		ID:             o.ID(),
		OrderNumber:    o.OrderNumber(),
		CustomerID:     o.CustomerID(),
		Status:         string(o.Status()),
		PlacedAt:       o.PlacedAt(),
		CreatedAt:      o.CreatedAt(),
		CreatedBy:      o.CreatedBy(),
		LastModifiedAt: o.LastModifiedAt(),
		LastModifiedBy: o.LastModifiedBy(),
	}

	for _, item := range o.Items() {
		model.Items = append(model.Items, OrderItemModel{
			ID:          item.ID(),
			OrderID:     o.ID(),
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice(),
			Quantity:    item.Quantity(),
		})
	}
	return model
}

// ModelToOrder converts a GORM model to a domain order
func ModelToOrder(m *OrderModel) (*ordering.Order, error) {
	status, err := ordering.ParseOrderStatus(m.Status)
	if err != nil {
		return nil, err
	}

	items := make([]*ordering.OrderItem, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, ordering.RehydrateOrderItem(
			item.ID,
			item.ProductID,
			item.ProductName,
			item.UnitPrice,
			item.Quantity,
		))
	}

	order := ordering.RehydrateOrder(m.ID, m.CustomerID, m.OrderNumber, status, items, m.PlacedAt)
	order.RestoreAudit(m.CreatedAt, m.CreatedBy, m.LastModifiedAt, m.LastModifiedBy)
	return order, nil
}
