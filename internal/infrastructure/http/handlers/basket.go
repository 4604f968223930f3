package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/ports/inbound"
)

// BasketHandlers handles shopping cart requests
type BasketHandlers struct {
	baskets inbound.BasketService
	logger  *zap.Logger
}

// NewBasketHandlers creates a new basket handlers instance
func NewBasketHandlers(baskets inbound.BasketService, logger *zap.Logger) *BasketHandlers {
	return &BasketHandlers{
		baskets: baskets,
		logger:  logger.Named("basket-handlers"),
	}
}

// Routes mounts the basket endpoints.
func (h *BasketHandlers) Routes(r chi.Router) {
	r.Route("/carts", func(r chi.Router) {
		r.Post("/", h.GetOrCreateCart)
		r.Get("/{id}", h.GetCart)
		r.Post("/{id}/items", h.AddItem)
		r.Delete("/{id}/items/{productId}", h.RemoveItem)
		r.Put("/{id}/items/{productId}", h.UpdateItemQuantity)
		r.Post("/{id}/discounts", h.ApplyDiscount)
		r.Post("/{id}/clear", h.ClearCart)
		r.Post("/{id}/checkout", h.Checkout)
	})
	r.Get("/customers/{customerId}/cart", h.GetActiveCart)
}

type createCartRequest struct {
	CustomerID uuid.UUID `json:"customer_id"`
}

// GetOrCreateCart handles POST /api/v1/carts
func (h *BasketHandlers) GetOrCreateCart(w http.ResponseWriter, r *http.Request) {
	var req createCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.baskets.GetOrCreateCart(r.Context(), req.CustomerID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

// GetCart handles GET /api/v1/carts/{id}
func (h *BasketHandlers) GetCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.baskets.GetCart(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

// GetActiveCart handles GET /api/v1/customers/{customerId}/cart
func (h *BasketHandlers) GetActiveCart(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathUUID(r, "customerId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.baskets.GetActiveCartByCustomer(r.Context(), customerID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

type addItemRequest struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// AddItem handles POST /api/v1/carts/{id}/items
func (h *BasketHandlers) AddItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.baskets.AddItem(r.Context(), inbound.AddCartItemCommand{
		CartID:      id,
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		UnitPrice:   req.UnitPrice,
		Quantity:    req.Quantity,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

// RemoveItem handles DELETE /api/v1/carts/{id}/items/{productId}
func (h *BasketHandlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	productID, err := pathUUID(r, "productId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.baskets.RemoveItem(r.Context(), id, productID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItemQuantity handles PUT /api/v1/carts/{id}/items/{productId}
func (h *BasketHandlers) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	productID, err := pathUUID(r, "productId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req updateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.baskets.UpdateItemQuantity(r.Context(), inbound.UpdateCartItemQuantityCommand{
		CartID:    id,
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

type applyCartDiscountRequest struct {
	Code  string          `json:"code"`
	Kind  string          `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// ApplyDiscount handles POST /api/v1/carts/{id}/discounts
func (h *BasketHandlers) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req applyCartDiscountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.baskets.ApplyDiscount(r.Context(), inbound.ApplyCartDiscountCommand{
		CartID: id,
		Code:   req.Code,
		Kind:   req.Kind,
		Value:  req.Value,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

// ClearCart handles POST /api/v1/carts/{id}/clear
func (h *BasketHandlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.baskets.ClearCart(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

// Checkout handles POST /api/v1/carts/{id}/checkout
func (h *BasketHandlers) Checkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.baskets.Checkout(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}
