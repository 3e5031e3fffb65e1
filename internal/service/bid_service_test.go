package service

import (
	"context"
	"testing"
	"time"

	"bidkart/internal/kvstore"
	"bidkart/internal/model"
	"bidkart/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bidFixture wires the bid engine over an in-memory store with a
// controllable clock.
type bidFixture struct {
	svc     BidService
	cartSvc CartService
	bidRepo repository.BidRepository
	clock   *fakeClock
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newBidFixture(t *testing.T) *bidFixture {
	t.Helper()

	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	locks := repository.NewKeyMutex()
	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(store, locks, logger)
	require.NoError(t, productRepo.SaveAll(ctx, []model.Product{
		{ID: "phone-1", Name: "Galaxy S24 Ultra", Price: 134999},
	}))

	cartRepo := repository.NewCartRepository(store, locks, logger)
	cartSvc := NewCartService(cartRepo, productRepo, logger)

	bidRepo := repository.NewBidRepository(store, locks, logger)
	svc := NewBidService(bidRepo, productRepo, cartSvc, logger)

	clock := &fakeClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	svc.(*bidService).now = clock.now

	return &bidFixture{svc: svc, cartSvc: cartSvc, bidRepo: bidRepo, clock: clock}
}

func (f *bidFixture) createRequest(t *testing.T, userID string) *model.BidRequest {
	t.Helper()
	bid, err := f.svc.CreateBidRequest(context.Background(), userID, &model.CreateBidRequest{
		ProductID:   "phone-1",
		Duration:    24,
		TargetPrice: 130000,
	})
	require.NoError(t, err)
	return bid
}

func (f *bidFixture) submit(t *testing.T, bidID string, seller string, price int64) *model.BidRequest {
	t.Helper()
	updated, err := f.svc.SubmitSellerBid(context.Background(), bidID, &model.SubmitSellerBidRequest{
		SellerID:     seller,
		SellerName:   seller,
		Price:        price,
		DeliveryTime: "2 days",
	})
	require.NoError(t, err)
	return updated
}

func TestCreateBidRequest(t *testing.T) {
	f := newBidFixture(t)

	bid := f.createRequest(t, "buyer-1")

	assert.Regexp(t, `^BID\d+[0-9A-F]{9}$`, bid.ID)
	assert.Equal(t, model.BidRequestActive, bid.Status)
	assert.Equal(t, "Galaxy S24 Ultra", bid.ProductName)
	assert.Equal(t, int64(134999), bid.ProductPrice)
	assert.Equal(t, f.clock.t.Add(24*time.Hour), bid.ExpiresAt)
	assert.Empty(t, bid.Bids)
}

func TestCreateBidRequestValidation(t *testing.T) {
	f := newBidFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateBidRequest(ctx, "buyer-1", &model.CreateBidRequest{ProductID: "phone-1", Duration: 0})
	assert.ErrorIs(t, err, model.ErrInvalidDuration)

	_, err = f.svc.CreateBidRequest(ctx, "buyer-1", &model.CreateBidRequest{ProductID: "phone-1", Duration: -2})
	assert.ErrorIs(t, err, model.ErrInvalidDuration)

	_, err = f.svc.CreateBidRequest(ctx, "buyer-1", &model.CreateBidRequest{ProductID: "nope", Duration: 24})
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestSubmitAndBestOffer(t *testing.T) {
	f := newBidFixture(t)
	bid := f.createRequest(t, "buyer-1")

	prices := []int64{132999, 131999, 133499, 132499}
	for i, p := range prices {
		f.clock.advance(time.Minute)
		updated := f.submit(t, bid.ID, string(rune('A'+i)), p)
		assert.Len(t, updated.Bids, i+1)
		assert.Equal(t, model.SellerBidPending, updated.Bids[i].Status)
		assert.Equal(t, 0, updated.Bids[i].UpdateCount)
	}

	best, err := f.svc.BestOffer(context.Background(), bid.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(131999), best.Price)
}

func TestBestOfferTieBreaksToEarlierTimestamp(t *testing.T) {
	f := newBidFixture(t)
	bid := f.createRequest(t, "buyer-1")

	f.submit(t, bid.ID, "first", 131999)
	f.clock.advance(time.Minute)
	f.submit(t, bid.ID, "second", 131999)

	best, err := f.svc.BestOffer(context.Background(), bid.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", best.SellerName)
}

func TestBestOfferEmptyAndMissing(t *testing.T) {
	f := newBidFixture(t)
	bid := f.createRequest(t, "buyer-1")

	_, err := f.svc.BestOffer(context.Background(), bid.ID)
	assert.ErrorIs(t, err, model.ErrSellerBidNotFound)

	_, err = f.svc.BestOffer(context.Background(), "absent")
	assert.ErrorIs(t, err, model.ErrBidNotFound)
}

func TestReviseSellerBid(t *testing.T) {
	f := newBidFixture(t)
	bid := f.createRequest(t, "buyer-1")
	updated := f.submit(t, bid.ID, "seller-1", 132999)
	sellerBidID := updated.Bids[0].ID

	f.clock.advance(time.Minute)
	revised, err := f.svc.ReviseSellerBid(context.Background(), bid.ID, sellerBidID, 131499)
	require.NoError(t, err)

	got := revised.Bid(sellerBidID)
	assert.Equal(t, int64(131499), got.Price)
	assert.Equal(t, 1, got.UpdateCount)
	assert.Equal(t, f.clock.t, got.Timestamp)

	_, err = f.svc.ReviseSellerBid(context.Background(), bid.ID, "absent", 1000)
	assert.ErrorIs(t, err, model.ErrSellerBidNotFound)

	_, err = f.svc.ReviseSellerBid(context.Background(), bid.ID, sellerBidID, 0)
	assert.ErrorIs(t, err, model.ErrInvalidPrice)
}

func TestCounterOfferFlow(t *testing.T) {
	f := newBidFixture(t)
	ctx := context.Background()
	bid := f.createRequest(t, "buyer-1")
	updated := f.submit(t, bid.ID, "seller-1", 133499)
	sellerBidID := updated.Bids[0].ID

	// Buyer counters at 130000.
	countered, err := f.svc.CounterOffer(ctx, bid.ID, sellerBidID, 130000)
	require.NoError(t, err)
	got := countered.Bid(sellerBidID)
	assert.Equal(t, model.SellerBidCountered, got.Status)
	assert.Equal(t, int64(130000), got.Price)

	// A countered bid cannot be revised directly or countered again.
	_, err = f.svc.ReviseSellerBid(ctx, bid.ID, sellerBidID, 131000)
	assert.ErrorIs(t, err, model.ErrBidNotPending)
	_, err = f.svc.CounterOffer(ctx, bid.ID, sellerBidID, 129000)
	assert.ErrorIs(t, err, model.ErrCounterNotPending)

	// Seller answers the counter; the bid returns to pending.
	answered, err := f.svc.RespondToCounter(ctx, bid.ID, sellerBidID, 131500)
	require.NoError(t, err)
	got = answered.Bid(sellerBidID)
	assert.Equal(t, model.SellerBidPending, got.Status)
	assert.Equal(t, int64(131500), got.Price)
	assert.Equal(t, 1, got.UpdateCount)

	// Responding again without a fresh counter fails.
	_, err = f.svc.RespondToCounter(ctx, bid.ID, sellerBidID, 131000)
	assert.ErrorIs(t, err, model.ErrBidNotCountered)
}

func TestAcceptBidDeclinesSiblingsAndFillsCart(t *testing.T) {
	f := newBidFixture(t)
	ctx := context.Background()
	bid := f.createRequest(t, "buyer-1")

	f.submit(t, bid.ID, "seller-1", 132999)
	updated := f.submit(t, bid.ID, "seller-2", 131999)
	f.submit(t, bid.ID, "seller-3", 133499)
	winner := updated.Bids[1].ID

	accepted, err := f.svc.AcceptBid(ctx, bid.ID, winner)
	require.NoError(t, err)

	assert.Equal(t, model.BidRequestAccepted, accepted.Status)
	assert.Equal(t, winner, accepted.AcceptedBidID)
	for _, sb := range accepted.Bids {
		if sb.ID == winner {
			assert.Equal(t, model.SellerBidAccepted, sb.Status)
		} else {
			assert.Equal(t, model.SellerBidDeclined, sb.Status)
		}
	}

	// The winning offer landed in the buyer's cart at the negotiated price.
	cart, err := f.cartSvc.Get(ctx, "buyer-1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	require.NotNil(t, cart.Items[0].AcceptedBid)
	assert.Equal(t, int64(131999), cart.Items[0].AcceptedBid.Price)
	assert.Equal(t, "seller-2", cart.Items[0].AcceptedBid.SellerName)
	assert.Equal(t, int64(131999), cart.Total)

	// Accepted requests leave the active index.
	active, err := f.bidRepo.ActiveIDs(ctx)
	require.NoError(t, err)
	assert.NotContains(t, active, bid.ID)
}

func TestAcceptBidIsTerminal(t *testing.T) {
	f := newBidFixture(t)
	ctx := context.Background()
	bid := f.createRequest(t, "buyer-1")
	updated := f.submit(t, bid.ID, "seller-1", 131999)
	winner := updated.Bids[0].ID

	_, err := f.svc.AcceptBid(ctx, bid.ID, winner)
	require.NoError(t, err)

	// A second accept, a late submission and a revise all bounce.
	_, err = f.svc.AcceptBid(ctx, bid.ID, winner)
	assert.ErrorIs(t, err, model.ErrBidNotActive)

	_, err = f.svc.SubmitSellerBid(ctx, bid.ID, &model.SubmitSellerBidRequest{SellerID: "late", Price: 1000})
	assert.ErrorIs(t, err, model.ErrBidNotActive)

	_, err = f.svc.ReviseSellerBid(ctx, bid.ID, winner, 1000)
	assert.ErrorIs(t, err, model.ErrBidNotActive)
}

func TestAcceptUnknownSellerBid(t *testing.T) {
	f := newBidFixture(t)
	bid := f.createRequest(t, "buyer-1")
	f.submit(t, bid.ID, "seller-1", 131999)

	_, err := f.svc.AcceptBid(context.Background(), bid.ID, "absent")
	assert.ErrorIs(t, err, model.ErrSellerBidNotFound)

	// The failed accept must not have transitioned the request.
	got, err := f.svc.GetBidRequest(context.Background(), "buyer-1", bid.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BidRequestActive, got.Status)
}

func TestExpiryEnforcedAtWriteTime(t *testing.T) {
	f := newBidFixture(t)
	ctx := context.Background()
	bid := f.createRequest(t, "buyer-1")
	f.submit(t, bid.ID, "seller-1", 131999)

	// Past the deadline, before any sweep has run.
	f.clock.advance(25 * time.Hour)

	_, err := f.svc.SubmitSellerBid(ctx, bid.ID, &model.SubmitSellerBidRequest{SellerID: "late", Price: 1000})
	assert.ErrorIs(t, err, model.ErrBidExpired)

	// The failed write also flipped the record.
	got, err := f.svc.GetBidRequest(ctx, "buyer-1", bid.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BidRequestExpired, got.Status)

	active, err := f.bidRepo.ActiveIDs(ctx)
	require.NoError(t, err)
	assert.NotContains(t, active, bid.ID)
}

func TestLazyExpiryOnRead(t *testing.T) {
	f := newBidFixture(t)
	ctx := context.Background()
	bid := f.createRequest(t, "buyer-1")

	f.clock.advance(25 * time.Hour)

	bids, err := f.svc.GetUserBidRequests(ctx, "buyer-1")
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.Equal(t, model.BidRequestExpired, bids[0].Status)

	// Expired is terminal: acceptance is no longer possible.
	_, err = f.svc.AcceptBid(ctx, bid.ID, "any")
	assert.ErrorIs(t, err, model.ErrBidNotActive)
}

func TestExpireIfDueIdempotent(t *testing.T) {
	f := newBidFixture(t)
	ctx := context.Background()
	bid := f.createRequest(t, "buyer-1")

	// Not due yet: a no-op.
	require.NoError(t, f.svc.ExpireIfDue(ctx, bid.ID))
	got, err := f.svc.GetBidRequest(ctx, "buyer-1", bid.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BidRequestActive, got.Status)

	f.clock.advance(25 * time.Hour)
	require.NoError(t, f.svc.ExpireIfDue(ctx, bid.ID))
	require.NoError(t, f.svc.ExpireIfDue(ctx, bid.ID), "expiring twice is harmless")

	got, err = f.svc.GetBidRequest(ctx, "buyer-1", bid.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BidRequestExpired, got.Status)
}

func TestGetBidRequestScopedToOwner(t *testing.T) {
	f := newBidFixture(t)
	bid := f.createRequest(t, "buyer-1")

	_, err := f.svc.GetBidRequest(context.Background(), "someone-else", bid.ID)
	assert.ErrorIs(t, err, model.ErrBidNotFound)
}
