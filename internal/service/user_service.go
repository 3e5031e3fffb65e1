package service

import (
	"context"
	"fmt"
	"time"

	"bidkart/internal/model"
	"bidkart/internal/repository"

	"github.com/rs/zerolog"
)

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	logger   zerolog.Logger
	now      func() time.Time
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		logger:   logger.With().Str("service", "user").Logger(),
		now:      time.Now,
	}
}

// SaveProfile upserts the user's profile.
func (s *userService) SaveProfile(ctx context.Context, userID string, profile *model.UserProfile) (*model.UserProfile, error) {
	if profile == nil {
		profile = &model.UserProfile{}
	}
	profile.UserID = userID
	profile.UpdatedAt = s.now()

	if err := s.userRepo.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}

	s.logger.Info().Str("user_id", userID).Msg("profile saved")
	return profile, nil
}

// GetProfile returns the user's profile.
func (s *userService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	profile, err := s.userRepo.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile == nil {
		return nil, model.ErrUserNotFound
	}
	return profile, nil
}

// SavePreferences stores the user's onboarding answers.
func (s *userService) SavePreferences(ctx context.Context, userID string, prefs *model.Preferences) (*model.Preferences, error) {
	if prefs == nil {
		prefs = &model.Preferences{}
	}
	prefs.SavedAt = s.now()

	if err := s.userRepo.SavePreferences(ctx, userID, prefs); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	return prefs, nil
}

// GetPreferences returns the user's preferences, zero-valued when none
// have been saved.
func (s *userService) GetPreferences(ctx context.Context, userID string) (*model.Preferences, error) {
	prefs, err := s.userRepo.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}
	return prefs, nil
}

// TrackView records a product view: it bumps the product's counter and
// prepends the view to the user's capped history.
func (s *userService) TrackView(ctx context.Context, userID, productID string) error {
	if userID == "" || productID == "" {
		return model.NewDomainError(model.ErrCodeMissingField, "userId and productId are required")
	}

	if err := s.userRepo.RecordView(ctx, userID, productID, s.now()); err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}

	s.logger.Debug().
		Str("user_id", userID).
		Str("product_id", productID).
		Msg("product view tracked")
	return nil
}
