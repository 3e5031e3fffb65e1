package repository

import (
	"context"
	"fmt"
	"time"

	"bidkart/internal/kvstore"
	"bidkart/internal/model"

	"github.com/rs/zerolog"
)

// maxViewHistory caps the per-user recently-viewed list.
const maxViewHistory = 50

// userRepository implements UserRepository over the key-value store.
type userRepository struct {
	store  kvstore.Store
	locks  *KeyMutex
	logger zerolog.Logger
}

// NewUserRepository creates a key-value-backed user repository.
func NewUserRepository(store kvstore.Store, locks *KeyMutex, logger zerolog.Logger) UserRepository {
	return &userRepository{
		store:  store,
		locks:  locks,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

func (r *userRepository) SaveProfile(ctx context.Context, profile *model.UserProfile) error {
	if err := r.store.Set(ctx, userKey(profile.UserID), profile); err != nil {
		r.logger.Error().Err(err).Str("user_id", profile.UserID).Msg("failed to store profile")
		return fmt.Errorf("failed to store profile: %w", err)
	}
	return nil
}

func (r *userRepository) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var profile model.UserProfile
	found, err := r.store.Get(ctx, userKey(userID), &profile)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load profile")
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &profile, nil
}

func (r *userRepository) SavePreferences(ctx context.Context, userID string, prefs *model.Preferences) error {
	if err := r.store.Set(ctx, userPrefsKey(userID), prefs); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to store preferences")
		return fmt.Errorf("failed to store preferences: %w", err)
	}
	return nil
}

func (r *userRepository) GetPreferences(ctx context.Context, userID string) (*model.Preferences, error) {
	prefs := &model.Preferences{Interests: []string{}}
	if _, err := r.store.Get(ctx, userPrefsKey(userID), prefs); err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to load preferences")
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	if prefs.Interests == nil {
		prefs.Interests = []string{}
	}
	return prefs, nil
}

// RecordView bumps the product's view counter and prepends the view to the
// user's history, dropping entries past the cap.
func (r *userRepository) RecordView(ctx context.Context, userID, productID string, at time.Time) error {
	unlockCounter := r.locks.Lock(productViewsKey(productID))
	var views int64
	if _, err := r.store.Get(ctx, productViewsKey(productID), &views); err != nil {
		unlockCounter()
		return fmt.Errorf("failed to load view counter: %w", err)
	}
	if err := r.store.Set(ctx, productViewsKey(productID), views+1); err != nil {
		unlockCounter()
		return fmt.Errorf("failed to store view counter: %w", err)
	}
	unlockCounter()

	unlockHistory := r.locks.Lock(userViewsKey(userID))
	defer unlockHistory()

	var history []model.ProductView
	if _, err := r.store.Get(ctx, userViewsKey(userID), &history); err != nil {
		return fmt.Errorf("failed to load view history: %w", err)
	}
	history = append([]model.ProductView{{ProductID: productID, Timestamp: at}}, history...)
	if len(history) > maxViewHistory {
		history = history[:maxViewHistory]
	}
	if err := r.store.Set(ctx, userViewsKey(userID), history); err != nil {
		return fmt.Errorf("failed to store view history: %w", err)
	}
	return nil
}

func (r *userRepository) GetViews(ctx context.Context, userID string) ([]model.ProductView, error) {
	var history []model.ProductView
	if _, err := r.store.Get(ctx, userViewsKey(userID), &history); err != nil {
		return nil, fmt.Errorf("failed to load view history: %w", err)
	}
	if history == nil {
		history = []model.ProductView{}
	}
	return history, nil
}
