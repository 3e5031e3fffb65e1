package handler

import (
	"net/http"

	"bidkart/internal/model"
	"bidkart/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests.
type CartHandler struct {
	cartService  service.CartService
	orderService service.OrderService
	logger       zerolog.Logger
}

// NewCartHandler creates a new cart handler. Checkout lives here because it
// consumes the cart, even though the result is an order.
func NewCartHandler(cartService service.CartService, orderService service.OrderService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		cartService:  cartService,
		orderService: orderService,
		logger:       logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart/{userId}.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	cart, err := h.cartService.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"cart": cart})
}

// AddItem handles POST /api/cart/{userId}/add.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req model.AddItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	cart, err := h.cartService.AddItem(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"cart": cart})
}

// UpdateItem handles PUT /api/cart/{userId}/update.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req model.UpdateItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	cart, err := h.cartService.UpdateItem(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"cart": cart})
}

// RemoveItem handles DELETE /api/cart/{userId}/remove.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req model.RemoveItemRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	cart, err := h.cartService.RemoveItem(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"cart": cart})
}

// Clear handles DELETE /api/cart/{userId}/clear.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	if err := h.cartService.Clear(r.Context(), userID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"cleared": true})
}

// Checkout handles POST /api/cart/{userId}/checkout.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req model.CheckoutRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	order, err := h.orderService.Checkout(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"order": order})
}
