// Package ordering provides the application layer for order management
package ordering

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/domain/ordering"
	"github.com/modushop/v2/internal/ports/inbound"
	"github.com/modushop/v2/internal/ports/outbound"
	apperrors "github.com/modushop/v2/pkg/errors"
)

// OrderingService implements the order management use cases
type OrderingService struct {
	orders   outbound.OrderRepository
	uow      outbound.UnitOfWorkFactory
	validate *validator.Validate
	logger   *zap.Logger

	// newOrderNumber generates order numbers; injectable for tests
	newOrderNumber func() string
}

// NewOrderingService creates a new ordering service
func NewOrderingService(
	orders outbound.OrderRepository,
	uow outbound.UnitOfWorkFactory,
	validate *validator.Validate,
	logger *zap.Logger,
) inbound.OrderingService {
	return &OrderingService{
		orders:         orders,
		uow:            uow,
		validate:       validate,
		logger:         logger.Named("ordering-service"),
		newOrderNumber: generateOrderNumber,
	}
}

// generateOrderNumber produces a human-readable unique order number like
// ORD-20260901-7F3A2B1C.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// PlaceOrder creates an order from the given items
func (s *OrderingService) PlaceOrder(ctx context.Context, cmd inbound.PlaceOrderCommand) (*inbound.OrderDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	items := make([]*ordering.OrderItem, 0, len(cmd.Items))
	for _, in := range cmd.Items {
		item, err := ordering.NewOrderItem(in.ProductID, in.ProductName, in.UnitPrice, in.Quantity)
		if err != nil {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
		items = append(items, item)
	}

	order, err := ordering.NewOrder(cmd.CustomerID, s.newOrderNumber(), items)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	uow := s.uow(outbound.DispatchAndWait)
	uow.MarkNew(order, func(ctx context.Context) error {
		return s.orders.Create(ctx, order)
	})
	if err := uow.Commit(ctx); err != nil {
		return nil, apperrors.NewDatabaseError("place order", err)
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID().String()),
		zap.String("order_number", order.OrderNumber()),
		zap.String("customer_id", order.CustomerID().String()),
		zap.String("total", order.Total().String()),
	)
	return toOrderDTO(order), nil
}

// ConfirmOrder moves a pending order to confirmed
func (s *OrderingService) ConfirmOrder(ctx context.Context, orderID uuid.UUID) (*inbound.OrderDTO, error) {
	return s.transition(ctx, orderID, func(order *ordering.Order) error {
		return order.Confirm()
	})
}

// ShipOrder moves a confirmed order to shipped
func (s *OrderingService) ShipOrder(ctx context.Context, orderID uuid.UUID) (*inbound.OrderDTO, error) {
	return s.transition(ctx, orderID, func(order *ordering.Order) error {
		return order.Ship()
	})
}

// CancelOrder cancels a pending or confirmed order
func (s *OrderingService) CancelOrder(ctx context.Context, cmd inbound.CancelOrderCommand) (*inbound.OrderDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	return s.transition(ctx, cmd.OrderID, func(order *ordering.Order) error {
		return order.Cancel(cmd.Reason)
	})
}

// GetOrderByID returns a single order
func (s *OrderingService) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*inbound.OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderDTO(order), nil
}

// GetOrderByNumber returns the order with the given order number
func (s *OrderingService) GetOrderByNumber(ctx context.Context, orderNumber string) (*inbound.OrderDTO, error) {
	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, ordering.ErrOrderNotFound) {
			return nil, apperrors.NewOrderNotFoundError(orderNumber)
		}
		return nil, apperrors.NewDatabaseError("load order", err)
	}
	return toOrderDTO(order), nil
}

// GetOrdersByCustomer returns the customer's orders with pagination
func (s *OrderingService) GetOrdersByCustomer(ctx context.Context, customerID uuid.UUID, params inbound.PaginationParams) (*inbound.OrderList, error) {
	if err := s.validate.Struct(params); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	orders, total, err := s.orders.FindByCustomerID(ctx, customerID, params.Offset(), params.PageSize)
	if err != nil {
		return nil, apperrors.NewDatabaseError("find orders by customer", err)
	}

	list := &inbound.OrderList{
		Orders:   make([]inbound.OrderDTO, len(orders)),
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
	for i, order := range orders {
		list.Orders[i] = *toOrderDTO(order)
	}
	if params.PageSize > 0 {
		list.TotalPages = (total + params.PageSize - 1) / params.PageSize
	}
	return list, nil
}

// transition loads an order, applies a state change, and commits it through
// a unit of work.
func (s *OrderingService) transition(ctx context.Context, orderID uuid.UUID, apply func(order *ordering.Order) error) (*inbound.OrderDTO, error) {
	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := apply(order); err != nil {
		return nil, apperrors.NewInvalidOrderStateError(orderID.String(), err.Error())
	}

	uow := s.uow(outbound.DispatchAndWait)
	uow.MarkDirty(order, func(ctx context.Context) error {
		return s.orders.Update(ctx, order)
	})
	if err := uow.Commit(ctx); err != nil {
		return nil, apperrors.NewDatabaseError("update order", err)
	}

	return toOrderDTO(order), nil
}

func (s *OrderingService) loadOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ordering.ErrOrderNotFound) {
			return nil, apperrors.NewOrderNotFoundError(orderID.String())
		}
		return nil, apperrors.NewDatabaseError("load order", err)
	}
	return order, nil
}

func toOrderDTO(order *ordering.Order) *inbound.OrderDTO {
	items := order.Items()
	dto := &inbound.OrderDTO{
		ID:          order.ID(),
		OrderNumber: order.OrderNumber(),
		CustomerID:  order.CustomerID(),
		Status:      string(order.Status()),
		Items:       make([]inbound.OrderItemDTO, len(items)),
		Total:       order.Total(),
		ItemCount:   order.ItemCount(),
		PlacedAt:    order.PlacedAt().Format(time.RFC3339),
	}
	for i, item := range items {
		dto.Items[i] = inbound.OrderItemDTO{
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice(),
			Quantity:    item.Quantity(),
			TotalPrice:  item.TotalPrice(),
		}
	}
	return dto
}
