package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/ports/inbound"
)

// OrderingHandlers handles order management requests
type OrderingHandlers struct {
	orders inbound.OrderingService
	logger *zap.Logger
}

// NewOrderingHandlers creates a new ordering handlers instance
func NewOrderingHandlers(orders inbound.OrderingService, logger *zap.Logger) *OrderingHandlers {
	return &OrderingHandlers{
		orders: orders,
		logger: logger.Named("ordering-handlers"),
	}
}

// Routes mounts the ordering endpoints. Orders are placed by cart checkout,
// so there is no create endpoint here.
func (h *OrderingHandlers) Routes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/{id}", h.GetOrder)
		r.Get("/number/{orderNumber}", h.GetOrderByNumber)
		r.Post("/{id}/confirm", h.ConfirmOrder)
		r.Post("/{id}/ship", h.ShipOrder)
		r.Post("/{id}/cancel", h.CancelOrder)
	})
	r.Get("/customers/{customerId}/orders", h.GetCustomerOrders)
}

// GetOrder handles GET /api/v1/orders/{id}
func (h *OrderingHandlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.orders.GetOrderByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

// GetOrderByNumber handles GET /api/v1/orders/number/{orderNumber}
func (h *OrderingHandlers) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	dto, err := h.orders.GetOrderByNumber(r.Context(), chi.URLParam(r, "orderNumber"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

// GetCustomerOrders handles GET /api/v1/customers/{customerId}/orders
func (h *OrderingHandlers) GetCustomerOrders(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathUUID(r, "customerId")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	list, err := h.orders.GetOrdersByCustomer(r.Context(), customerID, paginationParams(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, list)
}

// ConfirmOrder handles POST /api/v1/orders/{id}/confirm
func (h *OrderingHandlers) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.orders.ConfirmOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

// ShipOrder handles POST /api/v1/orders/{id}/ship
func (h *OrderingHandlers) ShipOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.orders.ShipOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder handles POST /api/v1/orders/{id}/cancel
func (h *OrderingHandlers) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req cancelOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.orders.CancelOrder(r.Context(), inbound.CancelOrderCommand{
		OrderID: id,
		Reason:  req.Reason,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}
