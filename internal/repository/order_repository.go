package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"bidkart/internal/kvstore"
	"bidkart/internal/model"

	"github.com/rs/zerolog"
)

// orderRepository implements OrderRepository over the key-value store.
type orderRepository struct {
	store  kvstore.Store
	locks  *KeyMutex
	logger zerolog.Logger
}

// NewOrderRepository creates a key-value-backed order repository.
func NewOrderRepository(store kvstore.Store, locks *KeyMutex, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		store:  store,
		locks:  locks,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// CreateAndClearCart stores the order, prepends its id to the owner's order
// index and clears the owner's cart. The cart and index locks are held for
// the whole sequence so no caller in this process observes the unit half
// done; the store itself cannot make the three writes transactional.
func (r *orderRepository) CreateAndClearCart(ctx context.Context, order *model.Order) error {
	unlockCart := r.locks.Lock(cartKey(order.UserID))
	defer unlockCart()
	unlockIndex := r.locks.Lock(userOrdersKey(order.UserID))
	defer unlockIndex()

	if err := r.store.Set(ctx, orderKey(order.ID), order); err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to store order")
		return fmt.Errorf("failed to store order: %w", err)
	}

	var ids []string
	if _, err := r.store.Get(ctx, userOrdersKey(order.UserID), &ids); err != nil {
		return fmt.Errorf("failed to load order index: %w", err)
	}
	ids = append([]string{order.ID}, ids...)
	if err := r.store.Set(ctx, userOrdersKey(order.UserID), ids); err != nil {
		return fmt.Errorf("failed to update order index: %w", err)
	}

	empty := &model.Cart{Items: []model.CartItem{}}
	if err := r.store.Set(ctx, cartKey(order.UserID), empty); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID).
		Str("user_id", order.UserID).
		Msg("order created and cart cleared")

	return nil
}

// Get retrieves an order, or nil when it does not exist.
func (r *orderRepository) Get(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	found, err := r.store.Get(ctx, orderKey(id), &order)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to load order")
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &order, nil
}

// GetByUser retrieves all of a user's orders, newest first.
func (r *orderRepository) GetByUser(ctx context.Context, userID string) ([]model.Order, error) {
	var ids []string
	if _, err := r.store.Get(ctx, userOrdersKey(userID), &ids); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load order index")
		return nil, fmt.Errorf("failed to load order index: %w", err)
	}
	if len(ids) == 0 {
		return []model.Order{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = orderKey(id)
	}

	raws, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	orders := make([]model.Order, 0, len(raws))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		var order model.Order
		if err := json.Unmarshal(raw, &order); err != nil {
			return nil, fmt.Errorf("failed to decode order %s: %w", ids[i], err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Mutate loads the order, applies fn and persists the result under the
// per-id lock.
func (r *orderRepository) Mutate(ctx context.Context, id string, fn func(*model.Order) error) (*model.Order, error) {
	unlock := r.locks.Lock(orderKey(id))
	defer unlock()

	order, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if err := fn(order); err != nil {
		return nil, err
	}

	if err := r.store.Set(ctx, orderKey(id), order); err != nil {
		r.logger.Error().Err(err).Str("order_id", id).Msg("failed to persist order")
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}
	return order, nil
}
