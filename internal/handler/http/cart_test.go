package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HyungJun-An/LookFit/internal/domain"
	"github.com/HyungJun-An/LookFit/internal/service"
	apperrors "github.com/HyungJun-An/LookFit/pkg/errors"
	"github.com/HyungJun-An/LookFit/pkg/httputil"
	"github.com/HyungJun-An/LookFit/pkg/middleware"
)

// --- Mock CartRepository ---

type mockCartRepo struct {
	mock.Mock
}

func (m *mockCartRepo) GetCart(ctx context.Context, memberID string) (*domain.Cart, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepo) UpsertItem(ctx context.Context, item *domain.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *mockCartRepo) UpdateQuantity(ctx context.Context, memberID, productID string, quantity int) error {
	args := m.Called(ctx, memberID, productID, quantity)
	return args.Error(0)
}

func (m *mockCartRepo) RemoveItem(ctx context.Context, memberID, productID string) error {
	args := m.Called(ctx, memberID, productID)
	return args.Error(0)
}

func (m *mockCartRepo) Clear(ctx context.Context, memberID string) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

// --- Test Helpers ---

func cartTestHandler(carts *mockCartRepo, products *mockProductRepo) *CartHandler {
	svc := service.NewCartService(carts, products, productTestLogger())
	return NewCartHandler(svc, productTestLogger())
}

// cartRouter creates a chi router matching the production route layout,
// member middleware included.
func cartRouter(handler *CartHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.RequireMember)
		r.Get("/", handler.GetCart)
		r.Post("/items", handler.AddItem)
		r.Put("/items/{productID}", handler.UpdateItem)
		r.Delete("/items/{productID}", handler.RemoveItem)
	})
	return r
}

func decodeCartResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}

func memberCart() *domain.Cart {
	return &domain.Cart{
		MemberID: "hyun01",
		Items: []domain.CartItem{
			{MemberID: "hyun01", ProductID: "P001", Quantity: 2, ProductName: "Oversized Hoodie", ProductPrice: 49000},
		},
	}
}

// --- GetCart Tests ---

func TestGetCartHandler_Success(t *testing.T) {
	carts := new(mockCartRepo)
	carts.On("GetCart", mock.Anything, "hyun01").Return(memberCart(), nil)

	router := cartRouter(cartTestHandler(carts, new(mockProductRepo)))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(middleware.MemberIDHeader, "hyun01")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeCartResponse(t, rec)
	require.NotNil(t, resp.Data)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "hyun01", data["member_id"])
}

func TestGetCartHandler_MissingMemberHeader(t *testing.T) {
	router := cartRouter(cartTestHandler(new(mockCartRepo), new(mockProductRepo)))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeCartResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

// --- AddItem Tests ---

func TestAddItemHandler_Success(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	products.On("GetByID", mock.Anything, "P001").Return(catalogProduct(), nil)
	carts.On("UpsertItem", mock.Anything, mock.Anything).Return(nil)
	carts.On("GetCart", mock.Anything, "hyun01").Return(memberCart(), nil)

	router := cartRouter(cartTestHandler(carts, products))
	body := []byte(`{"product_id": "P001", "quantity": 2}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.MemberIDHeader, "hyun01")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	carts.AssertExpectations(t)
}

func TestAddItemHandler_ValidationError(t *testing.T) {
	router := cartRouter(cartTestHandler(new(mockCartRepo), new(mockProductRepo)))
	body := []byte(`{"product_id": "", "quantity": 0}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.MemberIDHeader, "hyun01")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeCartResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
}

func TestAddItemHandler_ProductNotFound(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	products.On("GetByID", mock.Anything, "P404").Return(nil, apperrors.NotFound("product", "P404"))

	router := cartRouter(cartTestHandler(carts, products))
	body := []byte(`{"product_id": "P404", "quantity": 1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.MemberIDHeader, "hyun01")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddItemHandler_InsufficientStock(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	products.On("GetByID", mock.Anything, "P001").Return(catalogProduct(), nil)

	router := cartRouter(cartTestHandler(carts, products))
	body := []byte(`{"product_id": "P001", "quantity": 99}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.MemberIDHeader, "hyun01")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeCartResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "insufficient stock")
}

// --- UpdateItem Tests ---

func TestUpdateItemHandler_Success(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	products.On("GetByID", mock.Anything, "P001").Return(catalogProduct(), nil)
	carts.On("UpdateQuantity", mock.Anything, "hyun01", "P001", 5).Return(nil)
	carts.On("GetCart", mock.Anything, "hyun01").Return(memberCart(), nil)

	router := cartRouter(cartTestHandler(carts, products))
	body := []byte(`{"quantity": 5}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/P001", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.MemberIDHeader, "hyun01")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	carts.AssertExpectations(t)
}

func TestUpdateItemHandler_LineNotFound(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	products.On("GetByID", mock.Anything, "P001").Return(catalogProduct(), nil)
	carts.On("UpdateQuantity", mock.Anything, "hyun01", "P001", 3).
		Return(apperrors.NotFound("cart item", "P001"))

	router := cartRouter(cartTestHandler(carts, products))
	body := []byte(`{"quantity": 3}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/P001", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.MemberIDHeader, "hyun01")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- RemoveItem Tests ---

func TestRemoveItemHandler_Success(t *testing.T) {
	carts := new(mockCartRepo)
	carts.On("RemoveItem", mock.Anything, "hyun01", "P001").Return(nil)
	carts.On("GetCart", mock.Anything, "hyun01").
		Return(&domain.Cart{MemberID: "hyun01", Items: []domain.CartItem{}}, nil)

	router := cartRouter(cartTestHandler(carts, new(mockProductRepo)))
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/P001", nil)
	req.Header.Set(middleware.MemberIDHeader, "hyun01")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	carts.AssertExpectations(t)
}

func TestRemoveItemHandler_NotFound(t *testing.T) {
	carts := new(mockCartRepo)
	carts.On("RemoveItem", mock.Anything, "hyun01", "P404").
		Return(apperrors.NotFound("cart item", "P404"))

	router := cartRouter(cartTestHandler(carts, new(mockProductRepo)))
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/cart/items/P404", nil)
	req.Header.Set(middleware.MemberIDHeader, "hyun01")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
