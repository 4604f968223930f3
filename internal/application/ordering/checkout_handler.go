package ordering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/modushop/v2/internal/domain/basket"
	"github.com/modushop/v2/internal/domain/shared"
	"github.com/modushop/v2/internal/ports/inbound"
)

// CheckoutHandler places an order whenever a cart finishes checkout. It runs
// in-process off the domain event dispatcher, so order placement happens in
// the same request that checked the cart out.
type CheckoutHandler struct {
	orders inbound.OrderingService
	logger *zap.Logger
}

// NewCheckoutHandler creates the handler.
func NewCheckoutHandler(orders inbound.OrderingService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		orders: orders,
		logger: logger.Named("checkout-handler"),
	}
}

// RegisterOn subscribes the handler to cart checkout events.
func (h *CheckoutHandler) RegisterOn(dispatcher shared.EventDispatcher) {
	dispatcher.Register(basket.EventCartCheckedOut, h.Handle)
}

// Handle converts the checked-out cart snapshot into a placed order.
func (h *CheckoutHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	checkedOut, ok := event.(basket.ShoppingCartCheckedOutEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventName())
	}

	cmd := inbound.PlaceOrderCommand{
		CustomerID: checkedOut.CustomerID,
		Items:      make([]inbound.PlaceOrderItemInput, len(checkedOut.Items)),
	}
	for i, item := range checkedOut.Items {
		cmd.Items[i] = inbound.PlaceOrderItemInput{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		}
	}

	order, err := h.orders.PlaceOrder(ctx, cmd)
	if err != nil {
		h.logger.Error("failed to place order for checked-out cart",
			zap.String("cart_id", checkedOut.CartID.String()),
			zap.String("customer_id", checkedOut.CustomerID.String()),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("order placed from checkout",
		zap.String("cart_id", checkedOut.CartID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
	)
	return nil
}
