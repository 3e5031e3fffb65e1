package handler

import (
	"net/http"

	"bidkart/internal/model"
	"bidkart/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// OrderHandler handles order tracking HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// ListByUser handles GET /api/orders/{userId}.
func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	orders, err := h.service.GetUserOrders(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

// GetByID handles GET /api/orders/{userId}/{orderId}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	order, err := h.service.GetOrder(r.Context(), vars["userId"], vars["orderId"])
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"order": order})
}

// UpdateStatus handles PUT /api/orders/{orderId}/status.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["orderId"]

	var req model.UpdateOrderStatusRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	order, err := h.service.UpdateStatus(r.Context(), orderID, req.Status)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"order": order})
}
