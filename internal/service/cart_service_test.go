package service

import (
	"context"
	"testing"

	"bidkart/internal/kvstore"
	"bidkart/internal/model"
	"bidkart/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartFixture(t *testing.T) CartService {
	t.Helper()

	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	locks := repository.NewKeyMutex()
	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(store, locks, logger)
	require.NoError(t, productRepo.SaveAll(ctx, []model.Product{
		{ID: "p-1", Name: "Galaxy S24", Price: 79999},
		{ID: "p-2", Name: "Buds", Price: 11999},
	}))

	return NewCartService(repository.NewCartRepository(store, locks, logger), productRepo, logger)
}

func TestCartGetEmpty(t *testing.T) {
	svc := newCartFixture(t)

	cart, err := svc.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Empty(t, cart.Items)
	assert.Equal(t, int64(0), cart.Total)
}

func TestCartAddItemSnapshotsAndMerges(t *testing.T) {
	svc := newCartFixture(t)
	ctx := context.Background()

	cart, err := svc.AddItem(ctx, "user-1", &model.AddItemRequest{ProductID: "p-1", Quantity: 1, SelectedSeller: "s-1"})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Galaxy S24", cart.Items[0].ProductName)
	assert.Equal(t, int64(79999), cart.Items[0].ProductPrice)

	// Same product and seller merges quantities.
	cart, err = svc.AddItem(ctx, "user-1", &model.AddItemRequest{ProductID: "p-1", Quantity: 2, SelectedSeller: "s-1"})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// A different seller opens a new line.
	cart, err = svc.AddItem(ctx, "user-1", &model.AddItemRequest{ProductID: "p-1", Quantity: 1, SelectedSeller: "s-2"})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)

	assert.Equal(t, int64(79999*4), cart.Total)
}

func TestCartAddItemValidation(t *testing.T) {
	svc := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", &model.AddItemRequest{ProductID: "p-1", Quantity: 0})
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, "user-1", &model.AddItemRequest{ProductID: "absent", Quantity: 1})
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestCartUpdateItem(t *testing.T) {
	svc := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", &model.AddItemRequest{ProductID: "p-1", Quantity: 2, SelectedSeller: "s-1"})
	require.NoError(t, err)

	cart, err := svc.UpdateItem(ctx, "user-1", &model.UpdateItemRequest{ProductID: "p-1", SelectedSeller: "s-1", Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, int64(5*79999), cart.Total)

	// Zero quantity removes the line.
	cart, err = svc.UpdateItem(ctx, "user-1", &model.UpdateItemRequest{ProductID: "p-1", SelectedSeller: "s-1", Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// Updating an absent line is a no-op.
	cart, err = svc.UpdateItem(ctx, "user-1", &model.UpdateItemRequest{ProductID: "p-2", SelectedSeller: "s-1", Quantity: 3})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartRemoveAndClear(t *testing.T) {
	svc := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", &model.AddItemRequest{ProductID: "p-1", Quantity: 1, SelectedSeller: "s-1"})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "user-1", &model.AddItemRequest{ProductID: "p-2", Quantity: 1, SelectedSeller: "s-1"})
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, "user-1", &model.RemoveItemRequest{ProductID: "p-1", SelectedSeller: "s-1"})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p-2", cart.Items[0].ProductID)

	require.NoError(t, svc.Clear(ctx, "user-1"))
	cart, err = svc.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, int64(0), cart.Total)
}

func TestCartAcceptedBidLineStaysSeparate(t *testing.T) {
	svc := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "user-1", &model.AddItemRequest{ProductID: "p-1", Quantity: 1, SelectedSeller: "s-1"})
	require.NoError(t, err)

	cart, err := svc.AddAcceptedBid(ctx, "user-1", &model.AcceptedBidEvent{
		BidRequestID: "BID1",
		SellerBidID:  "sb-1",
		ProductID:    "p-1",
		ProductName:  "Galaxy S24",
		SellerName:   "s-1",
		Quantity:     1,
		Price:        75000,
		Freebies:     []string{"case"},
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 2, "negotiated line never merges with a catalogue line")

	negotiated := cart.Items[1]
	require.NotNil(t, negotiated.AcceptedBid)
	assert.Equal(t, int64(75000), negotiated.UnitPrice())
	assert.Equal(t, []string{"case"}, negotiated.AcceptedBid.Freebies)
	assert.Equal(t, int64(79999+75000), cart.Total)

	// Adding the same product again still merges only with the plain line.
	cart, err = svc.AddItem(ctx, "user-1", &model.AddItemRequest{ProductID: "p-1", Quantity: 1, SelectedSeller: "s-1"})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}
