package repository

import (
	"context"
	"time"

	"bidkart/internal/model"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// SaveAll stores the given products and replaces the product id index.
	SaveAll(ctx context.Context, products []model.Product) error

	// GetAll retrieves all products in seeded order.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product, or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// BidRepository defines aggregate access for bid requests. The BidRequest
// record is the unit of consistency: Mutate serialises the whole
// read-modify-write cycle per bid request id.
type BidRepository interface {
	// Create stores a new bid request and links it into the owner's index
	// and the active-request index.
	Create(ctx context.Context, bid *model.BidRequest) error

	// Get retrieves a bid request, or nil when it does not exist.
	Get(ctx context.Context, id string) (*model.BidRequest, error)

	// GetByUser retrieves all of a buyer's bid requests, newest first.
	GetByUser(ctx context.Context, userID string) ([]model.BidRequest, error)

	// Mutate loads the bid request, applies fn and persists the result,
	// holding the per-id lock for the whole cycle. A status change away
	// from active also unlinks the id from the active index. Returns
	// model.ErrBidNotFound when the record does not exist; fn errors
	// abort the write and are returned unchanged.
	Mutate(ctx context.Context, id string, fn func(*model.BidRequest) error) (*model.BidRequest, error)

	// ActiveIDs returns the ids currently on the active-request index.
	ActiveIDs(ctx context.Context) ([]string, error)
}

// CartRepository defines access to the per-user cart aggregate.
type CartRepository interface {
	// Get retrieves the user's cart; a missing record is an empty cart.
	Get(ctx context.Context, userID string) (*model.Cart, error)

	// Mutate loads the cart, applies fn and persists the result under the
	// cart key lock.
	Mutate(ctx context.Context, userID string, fn func(*model.Cart) error) (*model.Cart, error)
}

// OrderRepository defines access to order records and the per-user index.
type OrderRepository interface {
	// CreateAndClearCart stores the order, prepends its id to the owner's
	// order index and clears the owner's cart as one locked unit.
	CreateAndClearCart(ctx context.Context, order *model.Order) error

	// Get retrieves an order, or nil when it does not exist.
	Get(ctx context.Context, id string) (*model.Order, error)

	// GetByUser retrieves all of a user's orders, newest first.
	GetByUser(ctx context.Context, userID string) ([]model.Order, error)

	// Mutate loads the order, applies fn and persists the result under
	// the per-id lock. Returns model.ErrOrderNotFound when missing.
	Mutate(ctx context.Context, id string, fn func(*model.Order) error) (*model.Order, error)
}

// UserRepository defines access to profiles, preferences and view history.
type UserRepository interface {
	SaveProfile(ctx context.Context, profile *model.UserProfile) error

	// GetProfile retrieves a profile, or nil when it does not exist.
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)

	SavePreferences(ctx context.Context, userID string, prefs *model.Preferences) error

	// GetPreferences retrieves preferences; a missing record comes back
	// as the zero value, never nil.
	GetPreferences(ctx context.Context, userID string) (*model.Preferences, error)

	// RecordView bumps the product's view counter and prepends the view
	// to the user's capped history.
	RecordView(ctx context.Context, userID, productID string, at time.Time) error

	// GetViews returns the user's recent views, newest first.
	GetViews(ctx context.Context, userID string) ([]model.ProductView, error)
}
