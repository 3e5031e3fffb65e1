package service

import (
	"context"
	"time"

	"bidkart/internal/model"
)

// BidService is the bid negotiation engine: it owns the BidRequest state
// machine, seller-bid ingestion, counter/accept logic and expiry.
type BidService interface {
	// CreateBidRequest opens a new time-boxed reverse auction for a
	// product. The product name and price are snapshotted at this point.
	CreateBidRequest(ctx context.Context, userID string, req *model.CreateBidRequest) (*model.BidRequest, error)

	// GetUserBidRequests returns the buyer's bid requests, newest first,
	// lazily expiring any whose time box has elapsed.
	GetUserBidRequests(ctx context.Context, userID string) ([]model.BidRequest, error)

	// GetBidRequest returns one of the buyer's bid requests, lazily
	// expiring it if due.
	GetBidRequest(ctx context.Context, userID, bidID string) (*model.BidRequest, error)

	// SubmitSellerBid appends a new pending seller bid. Submissions
	// after the deadline fail even before the request has been swept.
	SubmitSellerBid(ctx context.Context, bidID string, req *model.SubmitSellerBidRequest) (*model.BidRequest, error)

	// ReviseSellerBid lets a seller change the price of their own
	// pending bid. Countered bids must go through RespondToCounter.
	ReviseSellerBid(ctx context.Context, bidID, sellerBidID string, newPrice int64) (*model.BidRequest, error)

	// RespondToCounter is the seller's answer to a buyer counter-offer:
	// the bid returns to pending at the seller's new price.
	RespondToCounter(ctx context.Context, bidID, sellerBidID string, newPrice int64) (*model.BidRequest, error)

	// CounterOffer records a buyer-proposed price against a pending
	// seller bid, marking it countered.
	CounterOffer(ctx context.Context, bidID, sellerBidID string, buyerPrice int64) (*model.BidRequest, error)

	// AcceptBid resolves the auction: the chosen bid is accepted, every
	// sibling is declined, the request reaches its terminal accepted
	// state and a cart line item is materialised for the buyer.
	AcceptBid(ctx context.Context, bidID, sellerBidID string) (*model.BidRequest, error)

	// BestOffer returns the lowest-priced seller bid; ties go to the
	// earliest timestamp, then arrival order. Pure read.
	BestOffer(ctx context.Context, bidID string) (*model.SellerBid, error)

	// ExpireIfDue flips an active request past its deadline to expired.
	// Idempotent; a no-op on accepted or already-expired requests.
	ExpireIfDue(ctx context.Context, bidID string) error

	// RunExpirySweeper periodically expires due requests from the active
	// index until ctx is cancelled. Blocks; run it on its own goroutine.
	RunExpirySweeper(ctx context.Context, interval time.Duration)
}

// CatalogService defines read-mostly catalogue operations.
type CatalogService interface {
	// Seed stores the given products, replacing the catalogue.
	Seed(ctx context.Context, products []model.Product) (int, error)

	// GetAll returns all products in seeded order.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID returns a single product.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// Search applies a free-text query and attribute filters.
	Search(ctx context.Context, req *model.SearchRequest) ([]model.Product, error)
}

// CartService defines operations on the per-user cart.
type CartService interface {
	Get(ctx context.Context, userID string) (*model.Cart, error)
	AddItem(ctx context.Context, userID string, req *model.AddItemRequest) (*model.Cart, error)
	UpdateItem(ctx context.Context, userID string, req *model.UpdateItemRequest) (*model.Cart, error)
	RemoveItem(ctx context.Context, userID string, req *model.RemoveItemRequest) (*model.Cart, error)
	Clear(ctx context.Context, userID string) error

	// AddAcceptedBid materialises a cart line from a won negotiation.
	AddAcceptedBid(ctx context.Context, userID string, event *model.AcceptedBidEvent) (*model.Cart, error)
}

// OrderService defines checkout and order tracking operations.
type OrderService interface {
	// Checkout freezes the cart into an order with a payment split and
	// clears the cart.
	Checkout(ctx context.Context, userID string, req *model.CheckoutRequest) (*model.Order, error)

	GetUserOrders(ctx context.Context, userID string) ([]model.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*model.Order, error)

	// UpdateStatus advances an order strictly forward through the
	// delivery pipeline, appending to its timeline.
	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
}

// UserService defines profile, preference and view-history operations.
type UserService interface {
	SaveProfile(ctx context.Context, userID string, profile *model.UserProfile) (*model.UserProfile, error)
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	SavePreferences(ctx context.Context, userID string, prefs *model.Preferences) (*model.Preferences, error)
	GetPreferences(ctx context.Context, userID string) (*model.Preferences, error)
	TrackView(ctx context.Context, userID, productID string) error
}
