package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HyungJun-An/LookFit/internal/domain"
	"github.com/HyungJun-An/LookFit/internal/service"
	"github.com/HyungJun-An/LookFit/pkg/httputil"
	"github.com/HyungJun-An/LookFit/pkg/middleware"
	"github.com/HyungJun-An/LookFit/pkg/pagination"
	"github.com/HyungJun-An/LookFit/pkg/validator"
)

// OrderHandler handles HTTP requests for order endpoints. All routes run
// behind middleware.RequireMember.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// PlaceOrderRequest is the JSON request body for placing an order from the cart.
type PlaceOrderRequest struct {
	RecipientName    string `json:"recipient_name" validate:"required,min=1,max=100"`
	RecipientAddress string `json:"recipient_address" validate:"required,min=1,max=500"`
	RecipientPhone   string `json:"recipient_phone" validate:"required,min=9,max=20"`
	DeliveryRequest  string `json:"delivery_request" validate:"max=200"`
}

// --- Handlers ---

// PlaceOrder handles POST /api/v1/orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.MemberIDFromContext(r.Context())

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), memberID, domain.ShippingInfo{
		RecipientName:    req.RecipientName,
		RecipientAddress: req.RecipientAddress,
		RecipientPhone:   req.RecipientPhone,
		DeliveryRequest:  req.DeliveryRequest,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: order})
}

// ListOrders handles GET /api/v1/orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.MemberIDFromContext(r.Context())
	params := pagination.FromRequest(r)

	orders, total, err := h.service.ListOrders(r.Context(), memberID, params.Page, params.PerPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(orders, total, params.Page, params.PerPage))
}

// GetOrder handles GET /api/v1/orders/{orderNo}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	memberID := middleware.MemberIDFromContext(r.Context())

	orderNo, ok := httputil.ParseInt64(w, chi.URLParam(r, "orderNo"))
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), memberID, orderNo)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: order})
}
