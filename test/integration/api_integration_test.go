package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bidkart/internal/handler"
	"bidkart/internal/kvstore"
	"bidkart/internal/model"
	"bidkart/internal/repository"
	"bidkart/internal/router"
	"bidkart/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func setupTestServer(t *testing.T, store kvstore.Store) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	locks := repository.NewKeyMutex()

	productRepo := repository.NewProductRepository(store, locks, logger)
	bidRepo := repository.NewBidRepository(store, locks, logger)
	cartRepo := repository.NewCartRepository(store, locks, logger)
	orderRepo := repository.NewOrderRepository(store, locks, logger)
	userRepo := repository.NewUserRepository(store, locks, logger)

	catalogService := service.NewCatalogService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, nil, logger)
	bidService := service.NewBidService(bidRepo, productRepo, cartService, logger)
	userService := service.NewUserService(userRepo, logger)

	return router.New(
		handler.NewProductHandler(catalogService, logger),
		handler.NewBidHandler(bidService, logger),
		handler.NewCartHandler(cartService, orderService, logger),
		handler.NewOrderHandler(orderService, logger),
		handler.NewUserHandler(userService, logger),
		testAPIKey,
		logger,
	)
}

func doJSON(t *testing.T, server http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-API-Key", testAPIKey)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func TestNegotiationFlow_API(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ts := SetupTestStore(t)
	server := setupTestServer(t, ts.Store)

	// Seed the catalogue.
	rec := doJSON(t, server, http.MethodPost, "/api/products/seed", map[string]interface{}{
		"products": []model.Product{{ID: "phone-1", Name: "Galaxy S24 Ultra", Price: 134999}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Buyer opens a bid request.
	rec = doJSON(t, server, http.MethodPost, "/api/bids/buyer-1", model.CreateBidRequest{
		ProductID: "phone-1",
		Duration:  24,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var createResp struct {
		Bid model.BidRequest `json:"bid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &createResp))
	bidID := createResp.Bid.ID
	require.NotEmpty(t, bidID)

	// Two sellers bid.
	rec = doJSON(t, server, http.MethodPost, "/api/bids/"+bidID+"/seller-bid", model.SubmitSellerBidRequest{
		SellerID: "s-1", SellerName: "TechWorld", Price: 132999, DeliveryTime: "2 days",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, server, http.MethodPost, "/api/bids/"+bidID+"/seller-bid", model.SubmitSellerBidRequest{
		SellerID: "s-2", SellerName: "MobileHub", Price: 131999, DeliveryTime: "3 days",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var bidResp struct {
		Bid model.BidRequest `json:"bid"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bidResp))
	require.Len(t, bidResp.Bid.Bids, 2)
	winner := bidResp.Bid.Bids[1].ID

	// Best offer is the cheaper one.
	rec = doJSON(t, server, http.MethodGet, "/api/bids/"+bidID+"/best-offer", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bestResp struct {
		BestOffer model.SellerBid `json:"bestOffer"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bestResp))
	assert.Equal(t, int64(131999), bestResp.BestOffer.Price)

	// Buyer accepts; the win lands in the cart.
	rec = doJSON(t, server, http.MethodPost, "/api/bids/"+bidID+"/accept", model.AcceptBidRequest{SellerBidID: winner})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, server, http.MethodGet, "/api/cart/buyer-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cartResp struct {
		Cart model.Cart `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cartResp))
	require.Len(t, cartResp.Cart.Items, 1)
	assert.Equal(t, int64(131999), cartResp.Cart.Total)

	// A second accept conflicts.
	rec = doJSON(t, server, http.MethodPost, "/api/bids/"+bidID+"/accept", model.AcceptBidRequest{SellerBidID: winner})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Checkout turns the cart into an order and clears it.
	rec = doJSON(t, server, http.MethodPost, "/api/cart/buyer-1/checkout", model.CheckoutRequest{
		DeliverySlot:   "10min",
		PartialPercent: 33,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var orderResp struct {
		Order model.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orderResp))
	assert.Equal(t, int64(131999), orderResp.Order.Subtotal)
	assert.Equal(t, int64(49), orderResp.Order.DeliveryFee)
	assert.Equal(t, orderResp.Order.Total, orderResp.Order.Payment.PaidNow+orderResp.Order.Payment.DueAtDelivery)

	rec = doJSON(t, server, http.MethodGet, "/api/cart/buyer-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cartResp))
	assert.Empty(t, cartResp.Cart.Items)

	// Order status advances forward only.
	orderID := orderResp.Order.ID
	rec = doJSON(t, server, http.MethodPut, "/api/orders/"+orderID+"/status", model.UpdateOrderStatusRequest{Status: model.OrderConfirmed})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, server, http.MethodPut, "/api/orders/"+orderID+"/status", model.UpdateOrderStatusRequest{Status: model.OrderPending})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPIAuthentication(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	server := setupTestServer(t, kvstore.NewMemoryStore())

	// No key.
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Health stays open.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
