package router

import (
	"net/http"

	"bidkart/internal/handler"
	"bidkart/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// New creates the HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	bidHandler *handler.BidHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	userHandler *handler.UserHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check endpoint (no authentication required)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	// Catalogue
	api.HandleFunc("/products/seed", productHandler.Seed).Methods(http.MethodPost)
	api.HandleFunc("/products/search", productHandler.Search).Methods(http.MethodPost)
	api.HandleFunc("/products", productHandler.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", productHandler.GetByID).Methods(http.MethodGet)

	// Users
	api.HandleFunc("/users/{userId}/preferences", userHandler.SavePreferences).Methods(http.MethodPost)
	api.HandleFunc("/users/{userId}/preferences", userHandler.GetPreferences).Methods(http.MethodGet)
	api.HandleFunc("/users/{userId}", userHandler.SaveProfile).Methods(http.MethodPost)
	api.HandleFunc("/users/{userId}", userHandler.GetProfile).Methods(http.MethodGet)

	// Cart + checkout
	api.HandleFunc("/cart/{userId}/add", cartHandler.AddItem).Methods(http.MethodPost)
	api.HandleFunc("/cart/{userId}/update", cartHandler.UpdateItem).Methods(http.MethodPut)
	api.HandleFunc("/cart/{userId}/remove", cartHandler.RemoveItem).Methods(http.MethodDelete)
	api.HandleFunc("/cart/{userId}/clear", cartHandler.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/cart/{userId}/checkout", cartHandler.Checkout).Methods(http.MethodPost)
	api.HandleFunc("/cart/{userId}", cartHandler.Get).Methods(http.MethodGet)

	// Orders
	api.HandleFunc("/orders/{orderId}/status", orderHandler.UpdateStatus).Methods(http.MethodPut)
	api.HandleFunc("/orders/{userId}/{orderId}", orderHandler.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/orders/{userId}", orderHandler.ListByUser).Methods(http.MethodGet)

	// Bid negotiation. Routes with literal suffixes are registered before
	// the {userId}/{bidId} catch-all so they win the match.
	api.HandleFunc("/bids/{bidId}/seller-bid/{sellerBidId}/respond", bidHandler.RespondToCounter).Methods(http.MethodPost)
	api.HandleFunc("/bids/{bidId}/seller-bid/{sellerBidId}", bidHandler.Revise).Methods(http.MethodPut)
	api.HandleFunc("/bids/{bidId}/seller-bid", bidHandler.SubmitSellerBid).Methods(http.MethodPost)
	api.HandleFunc("/bids/{bidId}/counter", bidHandler.Counter).Methods(http.MethodPost)
	api.HandleFunc("/bids/{bidId}/accept", bidHandler.Accept).Methods(http.MethodPost)
	api.HandleFunc("/bids/{bidId}/best-offer", bidHandler.BestOffer).Methods(http.MethodGet)
	api.HandleFunc("/bids/{userId}/{bidId}", bidHandler.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/bids/{userId}", bidHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/bids/{userId}", bidHandler.ListByUser).Methods(http.MethodGet)

	// Analytics
	api.HandleFunc("/analytics/view", userHandler.TrackView).Methods(http.MethodPost)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = r
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
