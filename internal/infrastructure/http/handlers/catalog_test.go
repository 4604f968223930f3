package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/modushop/v2/internal/ports/inbound"
	apperrors "github.com/modushop/v2/pkg/errors"
)

// stubCatalogService implements the inbound port with canned responses.
type stubCatalogService struct {
	inbound.CatalogService

	product *inbound.ProductDTO
	err     error

	lastCreate inbound.CreateProductCommand
	lastPrice  inbound.UpdateProductPriceCommand
	lastSearch string
}

func (s *stubCatalogService) CreateProduct(_ context.Context, cmd inbound.CreateProductCommand) (*inbound.ProductDTO, error) {
	s.lastCreate = cmd
	return s.product, s.err
}

func (s *stubCatalogService) GetProductByID(_ context.Context, _ uuid.UUID) (*inbound.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubCatalogService) UpdateProductPrice(_ context.Context, cmd inbound.UpdateProductPriceCommand) (*inbound.ProductDTO, error) {
	s.lastPrice = cmd
	return s.product, s.err
}

func (s *stubCatalogService) SearchProducts(_ context.Context, term string, _ inbound.PaginationParams) (*inbound.ProductList, error) {
	s.lastSearch = term
	if s.err != nil {
		return nil, s.err
	}
	list := &inbound.ProductList{Total: 0, Page: 1, PageSize: 20}
	if s.product != nil {
		list.Products = []inbound.ProductDTO{*s.product}
		list.Total = 1
		list.TotalPages = 1
	}
	return list, nil
}

func newCatalogRouter(svc inbound.CatalogService) http.Handler {
	r := chi.NewRouter()
	NewCatalogHandlers(svc, zap.NewNop()).Routes(r)
	return r
}

func TestCreateProduct(t *testing.T) {
	svc := &stubCatalogService{
		product: &inbound.ProductDTO{ID: uuid.New(), Name: "IcedCapp", Price: decimal.NewFromFloat(4.50)},
	}
	router := newCatalogRouter(svc)

	body := `{"name":"IcedCapp","description":"Frozen coffee","price":"4.50","image_file":"i.png","categories":["drinks"],"stock_quantity":10}`
	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "IcedCapp", svc.lastCreate.Name)
	assert.Equal(t, 10, svc.lastCreate.StockQuantity)

	var dto inbound.ProductDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.Equal(t, svc.product.ID, dto.ID)
}

func TestCreateProductRejectsUnknownFields(t *testing.T) {
	router := newCatalogRouter(&stubCatalogService{})

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"bogus":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductInvalidID(t *testing.T) {
	router := newCatalogRouter(&stubCatalogService{})

	req := httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProductNotFound(t *testing.T) {
	id := uuid.New()
	svc := &stubCatalogService{err: apperrors.NewProductNotFoundError(id.String())}
	router := newCatalogRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/products/"+id.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, apperrors.CodeProductNotFound, resp.Error.Code)
}

func TestSearchProducts(t *testing.T) {
	svc := &stubCatalogService{
		product: &inbound.ProductDTO{ID: uuid.New(), Name: "IcedCapp"},
	}
	router := newCatalogRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/products/search?q=capp", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "capp", svc.lastSearch)

	var list inbound.ProductList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Products, 1)
	assert.Equal(t, "IcedCapp", list.Products[0].Name)
}

func TestSearchProductsRequiresTerm(t *testing.T) {
	svc := &stubCatalogService{err: apperrors.NewBadRequestError("search term is required")}
	router := newCatalogRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/products/search", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePrice(t *testing.T) {
	id := uuid.New()
	svc := &stubCatalogService{
		product: &inbound.ProductDTO{ID: id, Price: decimal.NewFromFloat(5.25)},
	}
	router := newCatalogRouter(svc)

	body := `{"price":"5.25","reason":"seasonal"}`
	req := httptest.NewRequest(http.MethodPut, "/products/"+id.String()+"/price", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id, svc.lastPrice.ProductID)
	assert.True(t, svc.lastPrice.NewPrice.Equal(decimal.NewFromFloat(5.25)))
	assert.Equal(t, "seasonal", svc.lastPrice.Reason)
}
