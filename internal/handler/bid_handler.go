package handler

import (
	"net/http"

	"bidkart/internal/model"
	"bidkart/internal/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// BidHandler handles bid negotiation HTTP requests.
type BidHandler struct {
	service service.BidService
	logger  zerolog.Logger
}

// NewBidHandler creates a new bid handler.
func NewBidHandler(service service.BidService, logger zerolog.Logger) *BidHandler {
	return &BidHandler{
		service: service,
		logger:  logger.With().Str("handler", "bid").Logger(),
	}
}

// Create handles POST /api/bids/{userId}.
func (h *BidHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var req model.CreateBidRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	bid, err := h.service.CreateBidRequest(r.Context(), userID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"bid": bid})
}

// ListByUser handles GET /api/bids/{userId}.
func (h *BidHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	bids, err := h.service.GetUserBidRequests(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"bids": bids})
}

// GetByID handles GET /api/bids/{userId}/{bidId}.
func (h *BidHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	bid, err := h.service.GetBidRequest(r.Context(), vars["userId"], vars["bidId"])
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"bid": bid})
}

// SubmitSellerBid handles POST /api/bids/{bidId}/seller-bid.
func (h *BidHandler) SubmitSellerBid(w http.ResponseWriter, r *http.Request) {
	bidID := mux.Vars(r)["bidId"]

	var req model.SubmitSellerBidRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	bid, err := h.service.SubmitSellerBid(r.Context(), bidID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"bid": bid})
}

// Revise handles PUT /api/bids/{bidId}/seller-bid/{sellerBidId}.
func (h *BidHandler) Revise(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req model.RevisePriceRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	bid, err := h.service.ReviseSellerBid(r.Context(), vars["bidId"], vars["sellerBidId"], req.Price)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"bid": bid})
}

// RespondToCounter handles POST /api/bids/{bidId}/seller-bid/{sellerBidId}/respond.
func (h *BidHandler) RespondToCounter(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req model.RevisePriceRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}

	bid, err := h.service.RespondToCounter(r.Context(), vars["bidId"], vars["sellerBidId"], req.Price)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"bid": bid})
}

// Counter handles POST /api/bids/{bidId}/counter.
func (h *BidHandler) Counter(w http.ResponseWriter, r *http.Request) {
	bidID := mux.Vars(r)["bidId"]

	var req model.CounterOfferRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.SellerBidID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "sellerBidId is required", h.logger)
		return
	}

	bid, err := h.service.CounterOffer(r.Context(), bidID, req.SellerBidID, req.Price)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"bid": bid})
}

// Accept handles POST /api/bids/{bidId}/accept.
func (h *BidHandler) Accept(w http.ResponseWriter, r *http.Request) {
	bidID := mux.Vars(r)["bidId"]

	var req model.AcceptBidRequest
	if !decodeJSON(w, r, &req, h.logger) {
		return
	}
	if req.SellerBidID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "sellerBidId is required", h.logger)
		return
	}

	bid, err := h.service.AcceptBid(r.Context(), bidID, req.SellerBidID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"bid": bid})
}

// BestOffer handles GET /api/bids/{bidId}/best-offer.
func (h *BidHandler) BestOffer(w http.ResponseWriter, r *http.Request) {
	bidID := mux.Vars(r)["bidId"]

	offer, err := h.service.BestOffer(r.Context(), bidID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"bestOffer": offer})
}
