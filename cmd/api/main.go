package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bidkart/internal/config"
	"bidkart/internal/coupon"
	"bidkart/internal/handler"
	"bidkart/internal/kvstore"
	"bidkart/internal/repository"
	"bidkart/internal/router"
	"bidkart/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("store_backend", cfg.Store.Backend).Msg("starting bidkart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize storage backend
	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer store.Close()

	// One lock registry shared by every repository so cross-aggregate
	// units (checkout clearing the cart) serialise on the same locks.
	locks := repository.NewKeyMutex()

	// Initialize repositories
	productRepo := repository.NewProductRepository(store, locks, logger)
	bidRepo := repository.NewBidRepository(store, locks, logger)
	cartRepo := repository.NewCartRepository(store, locks, logger)
	orderRepo := repository.NewOrderRepository(store, locks, logger)
	userRepo := repository.NewUserRepository(store, locks, logger)

	// Initialize coupon validator (optional)
	validator, err := newCouponValidator(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize coupon validator: %w", err)
	}
	if validator != nil {
		defer validator.Close()
	}

	// Initialize services
	catalogService := service.NewCatalogService(productRepo, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartRepo, validator, logger)
	bidService := service.NewBidService(bidRepo, productRepo, cartService, logger)
	userService := service.NewUserService(userRepo, logger)

	// Background expiry sweeper for bid requests
	if cfg.Bidding.SweepInterval > 0 {
		go bidService.RunExpirySweeper(ctx, cfg.Bidding.SweepInterval)
	}

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(catalogService, logger)
	bidHandler := handler.NewBidHandler(bidService, logger)
	cartHandler := handler.NewCartHandler(cartService, orderService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	userHandler := handler.NewUserHandler(userService, logger)

	// Initialize router
	mux := router.New(productHandler, bidHandler, cartHandler, orderHandler, userHandler, cfg.Auth.APIKey, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newStore builds the configured key-value storage backend.
func newStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (kvstore.Store, error) {
	switch cfg.Store.Backend {
	case "postgres":
		return kvstore.NewPostgresStore(ctx, kvstore.PostgresConfig{
			ConnString:      cfg.Store.Postgres.ConnectionString(),
			MaxConnections:  cfg.Store.Postgres.MaxConnections,
			MinConnections:  cfg.Store.Postgres.MinConnections,
			MaxConnLifetime: time.Duration(cfg.Store.Postgres.MaxConnLifetime) * time.Second,
		}, logger)
	case "redis":
		return kvstore.NewRedisStore(ctx, kvstore.RedisConfig{
			Addr:     cfg.Store.Redis.Address(),
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
		}, logger)
	case "memory":
		logger.Warn().Msg("using in-memory store; data will not survive restarts")
		return kvstore.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

// newCouponValidator builds the coupon validator with an S3-then-local
// loader chain. Returns nil when coupon validation is disabled; checkout
// then rejects every coupon code.
func newCouponValidator(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (coupon.Validator, error) {
	if !cfg.Coupon.Enabled {
		logger.Info().Msg("coupon validation disabled")
		return nil, nil
	}

	fileLoader := coupon.NewFileLoader(logger)

	var s3Loader coupon.Loader
	if cfg.S3.Enabled {
		loader, err := coupon.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
		} else {
			s3Loader = loader
		}
	}

	couponLoader := coupon.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled && s3Loader != nil, logger)

	return coupon.NewValidator(ctx, &coupon.ValidatorConfig{
		FilePaths:     cfg.Coupon.FilePaths,
		MinMatchCount: 1,
	}, couponLoader, logger)
}
