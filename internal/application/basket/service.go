// Package basket provides the application layer for shopping cart management
package basket

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/domain/basket"
	"github.com/modushop/v2/internal/ports/inbound"
	"github.com/modushop/v2/internal/ports/outbound"
	apperrors "github.com/modushop/v2/pkg/errors"
)

// BasketService implements the shopping cart use cases
type BasketService struct {
	carts    outbound.BasketRepository
	uow      outbound.UnitOfWorkFactory
	validate *validator.Validate
	logger   *zap.Logger
}

// NewBasketService creates a new basket service
func NewBasketService(
	carts outbound.BasketRepository,
	uow outbound.UnitOfWorkFactory,
	validate *validator.Validate,
	logger *zap.Logger,
) inbound.BasketService {
	return &BasketService{
		carts:    carts,
		uow:      uow,
		validate: validate,
		logger:   logger.Named("basket-service"),
	}
}

// GetOrCreateCart returns the customer's active cart, creating one when none
// exists.
func (s *BasketService) GetOrCreateCart(ctx context.Context, customerID uuid.UUID) (*inbound.CartDTO, error) {
	cart, err := s.carts.FindActiveByCustomerID(ctx, customerID)
	if err == nil {
		return toCartDTO(cart), nil
	}
	if !errors.Is(err, basket.ErrCartNotFound) {
		return nil, apperrors.NewDatabaseError("find active cart", err)
	}

	cart = basket.NewShoppingCart(customerID)

	uow := s.uow(outbound.DispatchAndWait)
	uow.MarkNew(cart, func(ctx context.Context) error {
		return s.carts.Create(ctx, cart)
	})
	if err := uow.Commit(ctx); err != nil {
		return nil, apperrors.NewDatabaseError("create cart", err)
	}

	s.logger.Info("cart created",
		zap.String("cart_id", cart.ID().String()),
		zap.String("customer_id", customerID.String()),
	)
	return toCartDTO(cart), nil
}

// AddItem adds a product to the cart, merging quantities for an existing line
// item.
func (s *BasketService) AddItem(ctx context.Context, cmd inbound.AddCartItemCommand) (*inbound.CartDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	return s.mutateCart(ctx, cmd.CartID, func(cart *basket.ShoppingCart) error {
		return cart.AddItem(cmd.ProductID, cmd.ProductName, cmd.UnitPrice, cmd.Quantity, cmd.UnitPrice)
	})
}

// RemoveItem removes a product's line item from the cart
func (s *BasketService) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) (*inbound.CartDTO, error) {
	return s.mutateCart(ctx, cartID, func(cart *basket.ShoppingCart) error {
		return cart.RemoveItem(productID)
	})
}

// UpdateItemQuantity sets the absolute quantity of a line item
func (s *BasketService) UpdateItemQuantity(ctx context.Context, cmd inbound.UpdateCartItemQuantityCommand) (*inbound.CartDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	return s.mutateCart(ctx, cmd.CartID, func(cart *basket.ShoppingCart) error {
		return cart.UpdateItemQuantity(cmd.ProductID, cmd.Quantity)
	})
}

// ApplyDiscount applies a discount code to the cart
func (s *BasketService) ApplyDiscount(ctx context.Context, cmd inbound.ApplyCartDiscountCommand) (*inbound.CartDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	return s.mutateCart(ctx, cmd.CartID, func(cart *basket.ShoppingCart) error {
		return cart.ApplyDiscount(cmd.Code, cmd.Kind, cmd.Value)
	})
}

// ClearCart removes all items and discounts from the cart
func (s *BasketService) ClearCart(ctx context.Context, cartID uuid.UUID) (*inbound.CartDTO, error) {
	return s.mutateCart(ctx, cartID, func(cart *basket.ShoppingCart) error {
		return cart.Clear()
	})
}

// Checkout finalizes the cart. The checked-out event triggers order placement
// in the ordering module.
func (s *BasketService) Checkout(ctx context.Context, cartID uuid.UUID) (*inbound.CartDTO, error) {
	dto, err := s.mutateCart(ctx, cartID, func(cart *basket.ShoppingCart) error {
		return cart.Checkout()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cart checked out",
		zap.String("cart_id", cartID.String()),
		zap.Int("item_count", dto.ItemCount),
	)
	return dto, nil
}

// ReconcileProductPrice overwrites the denormalized price on every active
// cart holding the product. Overwrite semantics make repeated delivery of the
// same price a no-op.
func (s *BasketService) ReconcileProductPrice(ctx context.Context, cmd inbound.ReconcileProductPriceCommand) error {
	if err := s.validate.Struct(cmd); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	carts, err := s.carts.FindActiveCartsByProduct(ctx, cmd.ProductID)
	if err != nil {
		return apperrors.NewDatabaseError("find carts by product", err)
	}

	uow := s.uow(outbound.DispatchAndWait)
	touched := 0
	for _, cart := range carts {
		if !cart.UpdateItemPrice(cmd.ProductID, cmd.NewPrice) {
			continue
		}
		touched++
		cart := cart
		uow.MarkDirty(cart, func(ctx context.Context) error {
			return s.carts.Update(ctx, cart)
		})
	}
	if err := uow.Commit(ctx); err != nil {
		return apperrors.NewDatabaseError("reconcile product price", err)
	}

	s.logger.Info("product price reconciled",
		zap.String("product_id", cmd.ProductID.String()),
		zap.String("new_price", cmd.NewPrice.String()),
		zap.Int("carts_updated", touched),
	)
	return nil
}

// GetCart returns a cart by id
func (s *BasketService) GetCart(ctx context.Context, cartID uuid.UUID) (*inbound.CartDTO, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return toCartDTO(cart), nil
}

// GetActiveCartByCustomer returns the customer's active cart
func (s *BasketService) GetActiveCartByCustomer(ctx context.Context, customerID uuid.UUID) (*inbound.CartDTO, error) {
	cart, err := s.carts.FindActiveByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, basket.ErrCartNotFound) {
			return nil, apperrors.NewCartNotFoundError(customerID.String())
		}
		return nil, apperrors.NewDatabaseError("find active cart", err)
	}
	return toCartDTO(cart), nil
}

// mutateCart loads a cart, applies the mutation, and commits through a unit
// of work so domain events are dispatched only after a durable save.
func (s *BasketService) mutateCart(ctx context.Context, cartID uuid.UUID, mutate func(cart *basket.ShoppingCart) error) (*inbound.CartDTO, error) {
	cart, err := s.loadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if err := mutate(cart); err != nil {
		return nil, mapDomainError(cartID, err)
	}

	uow := s.uow(outbound.DispatchAndWait)
	uow.MarkDirty(cart, func(ctx context.Context) error {
		return s.carts.Update(ctx, cart)
	})
	if err := uow.Commit(ctx); err != nil {
		return nil, apperrors.NewDatabaseError("update cart", err)
	}

	return toCartDTO(cart), nil
}

func (s *BasketService) loadCart(ctx context.Context, cartID uuid.UUID) (*basket.ShoppingCart, error) {
	cart, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, basket.ErrCartNotFound) {
			return nil, apperrors.NewCartNotFoundError(cartID.String())
		}
		return nil, apperrors.NewDatabaseError("load cart", err)
	}
	return cart, nil
}

func mapDomainError(cartID uuid.UUID, err error) error {
	switch {
	case errors.Is(err, basket.ErrCartNotActive):
		return apperrors.NewCartNotActiveError(cartID.String())
	case errors.Is(err, basket.ErrEmptyCartCheckout):
		return apperrors.NewEmptyCartError(cartID.String())
	default:
		return apperrors.NewBadRequestError(err.Error())
	}
}

func toCartDTO(cart *basket.ShoppingCart) *inbound.CartDTO {
	items := cart.Items()
	discounts := cart.Discounts()

	dto := &inbound.CartDTO{
		ID:             cart.ID(),
		CustomerID:     cart.CustomerID(),
		Status:         string(cart.Status()),
		Items:          make([]inbound.CartItemDTO, len(items)),
		Discounts:      make([]inbound.CartDiscountDTO, len(discounts)),
		SubTotal:       cart.SubTotal(),
		DiscountAmount: cart.DiscountAmount(),
		Total:          cart.Total(),
		ItemCount:      cart.ItemCount(),
	}
	for i, item := range items {
		dto.Items[i] = inbound.CartItemDTO{
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice(),
			Quantity:    item.Quantity(),
			TotalPrice:  item.TotalPrice(),
		}
	}
	for i, d := range discounts {
		dto.Discounts[i] = inbound.CartDiscountDTO{
			Code:  d.Code,
			Kind:  d.Kind,
			Value: d.Value,
		}
	}
	return dto
}
