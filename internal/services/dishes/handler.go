package dishes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"restaurant-orders/internal/httpx"
	"restaurant-orders/internal/logger"
	"restaurant-orders/internal/models"
)

// Handler handles HTTP requests for the dish catalogue
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates a new dish handler
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Register attaches the dish routes to the mux
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/dishes", httpx.WithLogging(h.logger, h.Dishes))
	mux.HandleFunc("/dish/", httpx.WithLogging(h.logger, h.Dish))
	mux.HandleFunc("/menu", httpx.WithLogging(h.logger, h.Menu))
}

// Dishes handles POST and GET /dishes requests
func (h *Handler) Dishes(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	switch r.Method {
	case http.MethodPost:
		req, ok := h.decodeRequest(w, r, requestID)
		if !ok {
			return
		}

		dish, err := h.service.AddDish(r.Context(), req)
		if err != nil {
			h.logger.Error("dish_creation_failed", "Failed to add dish", requestID, err, nil)
			httpx.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, dish)

	case http.MethodGet:
		dishes, err := h.service.ListDishes(r.Context())
		if err != nil {
			h.logger.Error("dish_listing_failed", "Failed to list dishes", requestID, err, nil)
			httpx.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, dishes)

	default:
		httpx.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
	}
}

// Dish handles GET, PUT and DELETE /dish/{id} requests
func (h *Handler) Dish(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/dish/"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid dish id", requestID)
		return
	}

	switch r.Method {
	case http.MethodGet:
		dish, err := h.service.GetDish(r.Context(), id)
		if err != nil {
			h.writeDishError(w, err, requestID)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, dish)

	case http.MethodPut:
		req, ok := h.decodeRequest(w, r, requestID)
		if !ok {
			return
		}
		if err := h.service.UpdateDish(r.Context(), id, req); err != nil {
			h.writeDishError(w, err, requestID)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case http.MethodDelete:
		if err := h.service.DeleteDish(r.Context(), id); err != nil {
			h.writeDishError(w, err, requestID)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		httpx.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
	}
}

// Menu handles GET /menu requests
func (h *Handler) Menu(w http.ResponseWriter, r *http.Request) {
	requestID := logger.GenerateRequestID()

	if r.Method != http.MethodGet {
		httpx.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", requestID)
		return
	}

	menu, err := h.service.Menu(r.Context())
	if err != nil {
		h.logger.Error("menu_listing_failed", "Failed to list menu", requestID, err, nil)
		httpx.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, menu)
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request, requestID string) (models.DishRequest, bool) {
	if r.Header.Get("Content-Type") != "application/json" {
		httpx.WriteError(w, http.StatusBadRequest, "Content-Type must be application/json", requestID)
		return models.DishRequest{}, false
	}

	var req models.DishRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return models.DishRequest{}, false
	}
	if err := req.Validate(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		return models.DishRequest{}, false
	}
	return req, true
}

func (h *Handler) writeDishError(w http.ResponseWriter, err error, requestID string) {
	if errors.Is(err, models.ErrDishNotFound) {
		httpx.WriteError(w, http.StatusNotFound, "Dish not found", requestID)
		return
	}
	h.logger.Error("dish_request_failed", "Dish operation failed", requestID, err, nil)
	httpx.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
}
