// Package gorm provides GORM model definitions for the application
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel represents the GORM model for catalog products
type ProductModel struct {
	ID            uuid.UUID       `gorm:"type:char(36);primaryKey"`
	Name          string          `gorm:"type:varchar(200);not null;index"`
	Description   string          `gorm:"type:varchar(1000);not null"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ImageFile     string          `gorm:"type:varchar(255);not null"`
	Categories    StringSlice     `gorm:"type:json"`
	StockQuantity int             `gorm:"default:0"`
	IsAvailable   bool            `gorm:"default:false;index"`
	IsDeleted     bool            `gorm:"default:false;index"`
	DeletedAt     *time.Time
	DeletedBy     string `gorm:"type:varchar(100)"`

	CreatedAt      time.Time
	CreatedBy      string `gorm:"type:varchar(100)"`
	LastModifiedAt time.Time
	LastModifiedBy string `gorm:"type:varchar(100)"`
}

// TableName overrides the default table name
func (ProductModel) TableName() string { return "products" }

// CartModel represents the GORM model for shopping carts
type CartModel struct {
	ID         uuid.UUID `gorm:"type:char(36);primaryKey"`
	CustomerID uuid.UUID `gorm:"type:char(36);not null;index"`
	Status     string    `gorm:"type:varchar(20);not null;index"`

	Items     []CartItemModel     `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Discounts []CartDiscountModel `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`

	CreatedAt      time.Time
	CreatedBy      string `gorm:"type:varchar(100)"`
	LastModifiedAt time.Time
	LastModifiedBy string `gorm:"type:varchar(100)"`
}

// TableName overrides the default table name
func (CartModel) TableName() string { return "carts" }

// CartItemModel represents the GORM model for cart line items.
// ProductID is a plain value column, not a foreign key into the catalog
// module; the basket module owns its own denormalized product data.
type CartItemModel struct {
	ID           uuid.UUID       `gorm:"type:char(36);primaryKey"`
	CartID       uuid.UUID       `gorm:"type:char(36);not null;index"`
	ProductID    uuid.UUID       `gorm:"type:char(36);not null;index"`
	ProductName  string          `gorm:"type:varchar(200);not null"`
	ProductPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity     int             `gorm:"not null"`
	AddedAt      time.Time
}

// TableName overrides the default table name
func (CartItemModel) TableName() string { return "cart_items" }

// CartDiscountModel represents the GORM model for applied cart discounts
type CartDiscountModel struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"`
	CartID    uuid.UUID       `gorm:"type:char(36);not null;index"`
	Code      string          `gorm:"type:varchar(50);not null"`
	Kind      string          `gorm:"type:varchar(20);not null"`
	Value     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AppliedAt time.Time
}

// TableName overrides the default table name
func (CartDiscountModel) TableName() string { return "cart_discounts" }

// OrderModel represents the GORM model for orders
type OrderModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	OrderNumber string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	CustomerID  uuid.UUID `gorm:"type:char(36);not null;index"`
	Status      string    `gorm:"type:varchar(20);not null;index"`
	PlacedAt    time.Time

	Items []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt      time.Time
	CreatedBy      string `gorm:"type:varchar(100)"`
	LastModifiedAt time.Time
	LastModifiedBy string `gorm:"type:varchar(100)"`
}

// TableName overrides the default table name
func (OrderModel) TableName() string { return "orders" }

// OrderItemModel represents the GORM model for order line items
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:char(36);primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:char(36);not null;index"`
	ProductID   uuid.UUID       `gorm:"type:char(36);not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null"`
}

// TableName overrides the default table name
func (OrderItemModel) TableName() string { return "order_items" }

// StringSlice stores a []string as a JSON column
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		s = StringSlice{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
