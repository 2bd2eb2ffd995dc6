package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// Handler handles HTTP requests for orders
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new order handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Register attaches the order routes to the mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/orders", httpx.WithLogging(h.logger, h.CreateOrder))
	mux.HandleFunc("/order/", httpx.WithLogging(h.logger, h.GetOrder))
}

// CreateOrder handles POST /orders requests
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodPost {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}
	if r.Header.Get("Content-Type") != "application/json" {
		httpx.WriteError(w, http.StatusBadRequest, "Content-Type must be application/json", requestID)
		return
	}

	var req models.CreateOrderRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		h.logger.Error("validation_failed", "Failed to parse request body", requestID, err, nil)
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	if err := req.Validate(); err != nil {
		h.logger.Error("validation_failed", "Order validation failed", requestID, err, map[string]interface{}{
			"user_id": req.UserID,
		})
		httpx.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	created, err := h.service.CreateOrder(ctx, req.UserID, req.SpecialRequest, req.Lines)
	if err != nil {
		if errors.Is(err, models.ErrDishesNotEnough) {
			httpx.WriteError(w, http.StatusBadRequest, "Dishes not enough", requestID)
			return
		}
		h.logger.Error("order_creation_failed", "Failed to create order", requestID, err, map[string]interface{}{
			"user_id": req.UserID,
		})
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, created)
}

// GetOrder handles GET /order/{id} requests
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/order/"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid order id", requestID)
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "Order not found", requestID)
			return
		}
		h.logger.Error("order_lookup_failed", "Failed to look up order", requestID, err, map[string]interface{}{
			"order_id": id,
		})
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, order)
}
