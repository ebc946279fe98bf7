package payments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/botmitra/whatsbiz-platform/pkg/logging"
)

// Handler exposes the pricing catalog and the demo checkout over HTTP.
type Handler struct {
	checkout *FakeCheckoutService
	logger   *logging.Logger
}

// NewHandler creates a payments handler.
func NewHandler(checkout *FakeCheckoutService, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		checkout: checkout,
		logger:   logger,
	}
}

// ListPlans handles GET /api/payments/plans.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"plans": Plans()})
}

type createOrderRequest struct {
	PlanID string `json:"plan_id"`
	Yearly bool   `json:"yearly"`
}

// CreateOrder handles POST /api/payments/checkout.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.checkout.CreateOrder(req.PlanID, req.Yearly)
	if err != nil {
		switch {
		case errors.Is(err, ErrFakePaymentsDisabled):
			http.Error(w, "checkout unavailable", http.StatusServiceUnavailable)
		case errors.Is(err, ErrUnknownPlan):
			http.Error(w, "unknown plan", http.StatusBadRequest)
		default:
			h.logger.Error("failed to create demo order", "error", err)
			http.Error(w, "failed to create order", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(order)
}

// GetOrder handles GET /api/payments/orders/{orderID}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := h.checkout.GetOrder(orderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrFakePaymentsDisabled):
			http.Error(w, "checkout unavailable", http.StatusServiceUnavailable)
		case errors.Is(err, ErrOrderNotFound):
			http.Error(w, "order not found", http.StatusNotFound)
		default:
			h.logger.Error("failed to load demo order", "error", err)
			http.Error(w, "failed to load order", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(order)
}

// CompleteOrder handles POST /api/payments/orders/{orderID}/complete, settling
// a demo order without waiting for the timer.
func (h *Handler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	order, err := h.checkout.CompleteOrder(orderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrFakePaymentsDisabled):
			http.Error(w, "checkout unavailable", http.StatusServiceUnavailable)
		case errors.Is(err, ErrOrderNotFound):
			http.Error(w, "order not found", http.StatusNotFound)
		default:
			h.logger.Error("failed to complete demo order", "error", err)
			http.Error(w, "failed to complete order", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(order)
}
