package inbound

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderingService defines the use cases for order management
type OrderingService interface {
	// Commands - operations that modify state
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*OrderDTO, error)
	ConfirmOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	ShipOrder(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	CancelOrder(ctx context.Context, cmd CancelOrderCommand) (*OrderDTO, error)

	// Queries - operations that read state
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*OrderDTO, error)
	GetOrdersByCustomer(ctx context.Context, customerID uuid.UUID, params PaginationParams) (*OrderList, error)
}

// PlaceOrderCommand creates a new order, typically from a checked-out cart.
type PlaceOrderCommand struct {
	CustomerID uuid.UUID             `validate:"required"`
	Items      []PlaceOrderItemInput `validate:"required,min=1,dive"`
}

// PlaceOrderItemInput is one line of a new order.
type PlaceOrderItemInput struct {
	ProductID   uuid.UUID       `validate:"required"`
	ProductName string          `validate:"required,max=100"`
	UnitPrice   decimal.Decimal `validate:"required"`
	Quantity    int             `validate:"gt=0"`
}

// CancelOrderCommand cancels an order with a reason for the customer.
type CancelOrderCommand struct {
	OrderID uuid.UUID `validate:"required"`
	Reason  string    `validate:"required,max=200"`
}

// OrderDTO is the data transfer object for orders
type OrderDTO struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Status      string          `json:"status"`
	Items       []OrderItemDTO  `json:"items"`
	Total       decimal.Decimal `json:"total"`
	ItemCount   int             `json:"item_count"`
	PlacedAt    string          `json:"placed_at"`
}

// OrderItemDTO for order line item data
type OrderItemDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderList for paginated results
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	Total      int        `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
