// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/modushop/v2/internal/domain/basket"
	"github.com/modushop/v2/internal/domain/catalog"
	"github.com/modushop/v2/internal/domain/ordering"
)

// ProductRepository defines the interface for product persistence
// This follows the Repository pattern for data access abstraction
type ProductRepository interface {
	Create(ctx context.Context, product *catalog.Product) error
	Update(ctx context.Context, product *catalog.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error)

	// Query operations
	List(ctx context.Context, offset, limit int) ([]*catalog.Product, int, error)
	FindByCategory(ctx context.Context, category string, offset, limit int) ([]*catalog.Product, int, error)
	FindByPriceRange(ctx context.Context, min, max decimal.Decimal, offset, limit int) ([]*catalog.Product, int, error)

	// Search matches the term against product names and descriptions.
	Search(ctx context.Context, term string, offset, limit int) ([]*catalog.Product, int, error)
}

// BasketRepository defines the interface for shopping cart persistence
type BasketRepository interface {
	Create(ctx context.Context, cart *basket.ShoppingCart) error
	Update(ctx context.Context, cart *basket.ShoppingCart) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*basket.ShoppingCart, error)
	FindActiveByCustomerID(ctx context.Context, customerID uuid.UUID) (*basket.ShoppingCart, error)

	// FindActiveCartsByProduct returns every active cart holding a line item
	// for the given product. Used by the price reconciliation fan-out.
	FindActiveCartsByProduct(ctx context.Context, productID uuid.UUID) ([]*basket.ShoppingCart, error)
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	Create(ctx context.Context, order *ordering.Order) error
	Update(ctx context.Context, order *ordering.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*ordering.Order, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, offset, limit int) ([]*ordering.Order, int, error)
	FindByStatus(ctx context.Context, status ordering.OrderStatus, offset, limit int) ([]*ordering.Order, int, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// MessageBus defines the interface for publishing integration events between
// modules. Delivery is at-least-once; consumers must tolerate duplicates.
type MessageBus interface {
	Publish(ctx context.Context, topic string, message Message) error
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error
	Close() error
}

// Message represents a message to be published
type Message struct {
	ID        string
	Type      string
	Payload   []byte
	Metadata  map[string]string
	Timestamp time.Time
}

// MessageHandler handles incoming messages
type MessageHandler func(ctx context.Context, message Message) error
