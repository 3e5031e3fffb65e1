package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"bidkart/internal/kvstore"
	"bidkart/internal/model"

	"github.com/rs/zerolog"
)

// bidRepository implements BidRepository over the key-value store.
type bidRepository struct {
	store  kvstore.Store
	locks  *KeyMutex
	logger zerolog.Logger
}

// NewBidRepository creates a key-value-backed bid repository. The KeyMutex
// must be the instance shared by all repositories.
func NewBidRepository(store kvstore.Store, locks *KeyMutex, logger zerolog.Logger) BidRepository {
	return &bidRepository{
		store:  store,
		locks:  locks,
		logger: logger.With().Str("repository", "bid").Logger(),
	}
}

// Create stores a new bid request and links it into the owner's index and
// the active-request index.
func (r *bidRepository) Create(ctx context.Context, bid *model.BidRequest) error {
	if err := r.store.Set(ctx, bidKey(bid.ID), bid); err != nil {
		r.logger.Error().Err(err).Str("bid_id", bid.ID).Msg("failed to store bid request")
		return fmt.Errorf("failed to store bid request: %w", err)
	}

	if err := r.prependIndex(ctx, userBidsKey(bid.UserID), bid.ID); err != nil {
		return err
	}
	if err := r.appendIndex(ctx, activeBidsKey, bid.ID); err != nil {
		return err
	}

	r.logger.Debug().
		Str("bid_id", bid.ID).
		Str("user_id", bid.UserID).
		Msg("bid request created")

	return nil
}

// Get retrieves a bid request, or nil when it does not exist.
func (r *bidRepository) Get(ctx context.Context, id string) (*model.BidRequest, error) {
	var bid model.BidRequest
	found, err := r.store.Get(ctx, bidKey(id), &bid)
	if err != nil {
		r.logger.Error().Err(err).Str("bid_id", id).Msg("failed to load bid request")
		return nil, fmt.Errorf("failed to load bid request: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &bid, nil
}

// GetByUser retrieves all of a buyer's bid requests, newest first.
func (r *bidRepository) GetByUser(ctx context.Context, userID string) ([]model.BidRequest, error) {
	var ids []string
	if _, err := r.store.Get(ctx, userBidsKey(userID), &ids); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load bid index")
		return nil, fmt.Errorf("failed to load bid index: %w", err)
	}
	if len(ids) == 0 {
		return []model.BidRequest{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = bidKey(id)
	}

	raws, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to load bid requests: %w", err)
	}

	bids := make([]model.BidRequest, 0, len(raws))
	for i, raw := range raws {
		if raw == nil {
			// Index entries can outlive deleted records; skip them.
			continue
		}
		var bid model.BidRequest
		if err := json.Unmarshal(raw, &bid); err != nil {
			r.logger.Error().Err(err).Str("bid_id", ids[i]).Msg("failed to decode bid request")
			return nil, fmt.Errorf("failed to decode bid request %s: %w", ids[i], err)
		}
		bids = append(bids, bid)
	}
	return bids, nil
}

// Mutate loads the bid request, applies fn and persists the result while
// holding the per-id lock. Leaving the active status also unlinks the id
// from the active index.
func (r *bidRepository) Mutate(ctx context.Context, id string, fn func(*model.BidRequest) error) (*model.BidRequest, error) {
	unlock := r.locks.Lock(bidKey(id))
	defer unlock()

	bid, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if bid == nil {
		return nil, model.ErrBidNotFound
	}

	wasActive := bid.Status == model.BidRequestActive

	if err := fn(bid); err != nil {
		return nil, err
	}

	if err := r.store.Set(ctx, bidKey(id), bid); err != nil {
		r.logger.Error().Err(err).Str("bid_id", id).Msg("failed to persist bid request")
		return nil, fmt.Errorf("failed to persist bid request: %w", err)
	}

	if wasActive && bid.Status != model.BidRequestActive {
		if err := r.removeIndex(ctx, activeBidsKey, id); err != nil {
			// The sweeper tolerates stale entries; log and carry on.
			r.logger.Warn().Err(err).Str("bid_id", id).Msg("failed to unlink from active index")
		}
	}

	return bid, nil
}

// ActiveIDs returns the ids currently on the active-request index.
func (r *bidRepository) ActiveIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if _, err := r.store.Get(ctx, activeBidsKey, &ids); err != nil {
		return nil, fmt.Errorf("failed to load active index: %w", err)
	}
	return ids, nil
}

// prependIndex adds id to the front of the list stored at key.
func (r *bidRepository) prependIndex(ctx context.Context, key, id string) error {
	unlock := r.locks.Lock(key)
	defer unlock()

	var ids []string
	if _, err := r.store.Get(ctx, key, &ids); err != nil {
		return fmt.Errorf("failed to load index %s: %w", key, err)
	}
	ids = append([]string{id}, ids...)
	if err := r.store.Set(ctx, key, ids); err != nil {
		return fmt.Errorf("failed to update index %s: %w", key, err)
	}
	return nil
}

// appendIndex adds id to the end of the list stored at key.
func (r *bidRepository) appendIndex(ctx context.Context, key, id string) error {
	unlock := r.locks.Lock(key)
	defer unlock()

	var ids []string
	if _, err := r.store.Get(ctx, key, &ids); err != nil {
		return fmt.Errorf("failed to load index %s: %w", key, err)
	}
	ids = append(ids, id)
	if err := r.store.Set(ctx, key, ids); err != nil {
		return fmt.Errorf("failed to update index %s: %w", key, err)
	}
	return nil
}

// removeIndex drops id from the list stored at key.
func (r *bidRepository) removeIndex(ctx context.Context, key, id string) error {
	unlock := r.locks.Lock(key)
	defer unlock()

	var ids []string
	if _, err := r.store.Get(ctx, key, &ids); err != nil {
		return fmt.Errorf("failed to load index %s: %w", key, err)
	}
	filtered := ids[:0]
	for _, existing := range ids {
		if existing != id {
			filtered = append(filtered, existing)
		}
	}
	if err := r.store.Set(ctx, key, filtered); err != nil {
		return fmt.Errorf("failed to update index %s: %w", key, err)
	}
	return nil
}
