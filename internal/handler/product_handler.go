package handler

import (
	"net/http"

	"bidkart/internal/model"
	"bidkart/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// ProductHandler handles catalogue HTTP requests.
type ProductHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.CatalogService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// Seed handles POST /api/products/seed.
func (h *ProductHandler) Seed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Products []model.Product `json:"products"`
	}
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	count, err := h.service.Seed(r.Context(), req.Products)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"seeded": count})
}

// GetAll handles GET /api/products.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}

// GetByID handles GET /api/products/{id}.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"product": product})
}

// Search handles POST /api/products/search.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req model.SearchRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	products, err := h.service.Search(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"products": products})
}
