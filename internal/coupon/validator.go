package coupon

import (
	"context"
	"fmt"
	"sync"

	"bidkart/internal/model"

	"github.com/rs/zerolog"
)

// validator implements Validator. Coupon sets are read-only after
// initialisation, so lookups need no locking.
type validator struct {
	couponSets    []CouponSet
	minMatchCount int
	logger        zerolog.Logger
}

// ValidatorConfig holds configuration for the coupon validator.
type ValidatorConfig struct {
	// FilePaths is the list of coupon file paths to load.
	FilePaths []string

	// MinMatchCount is the minimum number of files a code must appear in.
	// Default: 1
	MinMatchCount int
}

// DefaultValidatorConfig returns the default validator configuration.
func DefaultValidatorConfig() *ValidatorConfig {
	return &ValidatorConfig{
		FilePaths: []string{
			"data/coupons/couponbase.gz",
		},
		MinMatchCount: 1,
	}
}

// NewValidator creates a new coupon validator, loading all coupon files
// concurrently at initialisation time.
func NewValidator(ctx context.Context, config *ValidatorConfig, loader Loader, logger zerolog.Logger) (Validator, error) {
	if config == nil {
		config = DefaultValidatorConfig()
	}
	minMatch := config.MinMatchCount
	if minMatch <= 0 {
		minMatch = 1
	}

	logger = logger.With().Str("component", "coupon-validator").Logger()

	logger.Info().
		Int("file_count", len(config.FilePaths)).
		Int("min_match_count", minMatch).
		Msg("initialising coupon validator")

	sets := make([]CouponSet, len(config.FilePaths))
	errs := make([]error, len(config.FilePaths))

	var wg sync.WaitGroup
	for i, filePath := range config.FilePaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()
			sets[index], errs[index] = loader.Load(ctx, path)
		}(i, filePath)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			logger.Error().
				Err(err).
				Str("file", config.FilePaths[i]).
				Msg("failed to load coupon file")
			return nil, fmt.Errorf("failed to load coupon file %s: %w", config.FilePaths[i], err)
		}
		logger.Info().
			Str("file", config.FilePaths[i]).
			Int("size", sets[i].Size()).
			Msg("coupon file loaded")
	}

	return &validator{
		couponSets:    sets,
		minMatchCount: minMatch,
		logger:        logger,
	}, nil
}

// Validate checks if a coupon code is valid: 8 to 10 characters long and
// present in at least minMatchCount of the loaded files.
func (v *validator) Validate(ctx context.Context, code string) error {
	if len(code) < 8 || len(code) > 10 {
		v.logger.Debug().
			Str("coupon_code", code).
			Int("length", len(code)).
			Msg("coupon code length invalid")
		return model.ErrInvalidCoupon
	}

	matches := 0
	for _, set := range v.couponSets {
		if set.Contains(code) {
			matches++
			if matches >= v.minMatchCount {
				return nil
			}
		}
	}

	v.logger.Debug().
		Str("coupon_code", code).
		Int("match_count", matches).
		Msg("coupon code not found in sufficient files")
	return model.ErrInvalidCoupon
}

// Close releases resources held by the validator.
func (v *validator) Close() error {
	v.couponSets = nil
	v.logger.Info().Msg("coupon validator closed")
	return nil
}
