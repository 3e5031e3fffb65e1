package repository

import (
	"context"
	"fmt"

	"bidkart/internal/kvstore"
	"bidkart/internal/model"

	"github.com/rs/zerolog"
)

// cartRepository implements CartRepository over the key-value store.
// The cart record at cart:{userId} is the unit of consistency.
type cartRepository struct {
	store  kvstore.Store
	locks  *KeyMutex
	logger zerolog.Logger
}

// NewCartRepository creates a key-value-backed cart repository.
func NewCartRepository(store kvstore.Store, locks *KeyMutex, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		store:  store,
		locks:  locks,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// Get retrieves the user's cart; a missing record is an empty cart.
func (r *cartRepository) Get(ctx context.Context, userID string) (*model.Cart, error) {
	cart := &model.Cart{Items: []model.CartItem{}}
	if _, err := r.store.Get(ctx, cartKey(userID), cart); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return cart, nil
}

// Mutate loads the cart, applies fn and persists the result under the cart
// key lock.
func (r *cartRepository) Mutate(ctx context.Context, userID string, fn func(*model.Cart) error) (*model.Cart, error) {
	unlock := r.locks.Lock(cartKey(userID))
	defer unlock()

	cart, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := fn(cart); err != nil {
		return nil, err
	}

	if err := r.store.Set(ctx, cartKey(userID), cart); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to persist cart")
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	return cart, nil
}
