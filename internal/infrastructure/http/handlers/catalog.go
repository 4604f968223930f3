package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/ports/inbound"
	"github.com/modushop/v2/internal/ports/outbound"
	apperrors "github.com/modushop/v2/pkg/errors"
)

// CatalogHandlers handles product management requests
type CatalogHandlers struct {
	catalog inbound.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandlers creates a new catalog handlers instance
func NewCatalogHandlers(catalog inbound.CatalogService, logger *zap.Logger) *CatalogHandlers {
	return &CatalogHandlers{
		catalog: catalog,
		logger:  logger.Named("catalog-handlers"),
	}
}

// Routes mounts the catalog endpoints.
func (h *CatalogHandlers) Routes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/search", h.SearchProducts)
		r.Get("/{id}", h.GetProduct)
		r.Delete("/{id}", h.DeleteProduct)
		r.Post("/{id}/restore", h.RestoreProduct)
		r.Put("/{id}/price", h.UpdatePrice)
		r.Post("/{id}/discount", h.ApplyDiscount)
		r.Patch("/{id}", h.UpdateDetails)
		r.Put("/{id}/categories", h.UpdateCategories)
		r.Put("/{id}/stock", h.UpdateStock)
	})
}

type createProductRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	ImageFile     string          `json:"image_file"`
	Categories    []string        `json:"categories"`
	StockQuantity int             `json:"stock_quantity"`
}

// CreateProduct handles POST /api/v1/products
func (h *CatalogHandlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.catalog.CreateProduct(r.Context(), inbound.CreateProductCommand{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		ImageFile:     req.ImageFile,
		Categories:    req.Categories,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, dto)
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.catalog.GetProductByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

// ListProducts handles GET /api/v1/products with optional category and price
// range filters.
func (h *CatalogHandlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := paginationParams(r)

	if category := r.URL.Query().Get("category"); category != "" {
		list, err := h.catalog.GetProductsByCategory(r.Context(), category, params)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, list)
		return
	}

	minRaw, maxRaw := r.URL.Query().Get("min_price"), r.URL.Query().Get("max_price")
	if minRaw != "" || maxRaw != "" {
		min, max, err := parsePriceRange(minRaw, maxRaw)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		list, err := h.catalog.GetProductsByPriceRange(r.Context(), min, max, params)
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		writeJSON(w, h.logger, http.StatusOK, list)
		return
	}

	list, err := h.catalog.ListProducts(r.Context(), params)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, list)
}

// SearchProducts handles GET /api/v1/products/search?q=term
func (h *CatalogHandlers) SearchProducts(w http.ResponseWriter, r *http.Request) {
	params := paginationParams(r)

	list, err := h.catalog.SearchProducts(r.Context(), r.URL.Query().Get("q"), params)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, list)
}

type updatePriceRequest struct {
	Price  decimal.Decimal `json:"price"`
	Reason string          `json:"reason"`
}

// UpdatePrice handles PUT /api/v1/products/{id}/price
func (h *CatalogHandlers) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req updatePriceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.catalog.UpdateProductPrice(r.Context(), inbound.UpdateProductPriceCommand{
		ProductID: id,
		NewPrice:  req.Price,
		Reason:    req.Reason,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

type applyDiscountRequest struct {
	Percentage decimal.Decimal `json:"percentage"`
	Reason     string          `json:"reason"`
}

// ApplyDiscount handles POST /api/v1/products/{id}/discount
func (h *CatalogHandlers) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req applyDiscountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.catalog.ApplyProductDiscount(r.Context(), inbound.ApplyProductDiscountCommand{
		ProductID:  id,
		Percentage: req.Percentage,
		Reason:     req.Reason,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

type updateDetailsRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageFile   *string `json:"image_file"`
}

// UpdateDetails handles PATCH /api/v1/products/{id}
func (h *CatalogHandlers) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req updateDetailsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.catalog.UpdateProductDetails(r.Context(), inbound.UpdateProductDetailsCommand{
		ProductID:   id,
		Name:        req.Name,
		Description: req.Description,
		ImageFile:   req.ImageFile,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

type updateCategoriesRequest struct {
	Categories []string `json:"categories"`
}

// UpdateCategories handles PUT /api/v1/products/{id}/categories
func (h *CatalogHandlers) UpdateCategories(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req updateCategoriesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.catalog.UpdateProductCategories(r.Context(), inbound.UpdateProductCategoriesCommand{
		ProductID:  id,
		Categories: req.Categories,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

type updateStockRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateStock handles PUT /api/v1/products/{id}/stock
func (h *CatalogHandlers) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req updateStockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.catalog.UpdateProductStock(r.Context(), inbound.UpdateProductStockCommand{
		ProductID: id,
		Quantity:  req.Quantity,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

// DeleteProduct handles DELETE /api/v1/products/{id}
func (h *CatalogHandlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id, outbound.ActorFromContext(r.Context())); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RestoreProduct handles POST /api/v1/products/{id}/restore
func (h *CatalogHandlers) RestoreProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	dto, err := h.catalog.RestoreProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, dto)
}

// pathUUID parses a UUID path parameter
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, apperrors.NewBadRequestError("invalid " + name + ": must be a UUID")
	}
	return id, nil
}

// paginationParams reads page/page_size query parameters with defaults
func paginationParams(r *http.Request) inbound.PaginationParams {
	params := inbound.PaginationParams{Page: 1, PageSize: 20}
	if raw := r.URL.Query().Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			params.Page = page
		}
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 && size <= 100 {
			params.PageSize = size
		}
	}
	return params
}

func parsePriceRange(minRaw, maxRaw string) (decimal.Decimal, decimal.Decimal, error) {
	min := decimal.Zero
	max := decimal.New(1, 6) // default ceiling of 1,000,000
	var err error
	if minRaw != "" {
		if min, err = decimal.NewFromString(minRaw); err != nil {
			return decimal.Zero, decimal.Zero, apperrors.NewBadRequestError("invalid min_price")
		}
	}
	if maxRaw != "" {
		if max, err = decimal.NewFromString(maxRaw); err != nil {
			return decimal.Zero, decimal.Zero, apperrors.NewBadRequestError("invalid max_price")
		}
	}
	return min, max, nil
}
