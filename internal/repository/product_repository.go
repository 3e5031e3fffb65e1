package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"bidkart/internal/kvstore"
	"bidkart/internal/model"

	"github.com/rs/zerolog"
)

// productRepository implements ProductRepository over the key-value store.
// Each product lives at product:{id}; product:ids holds the seeded order.
type productRepository struct {
	store  kvstore.Store
	locks  *KeyMutex
	logger zerolog.Logger
}

// NewProductRepository creates a key-value-backed product repository.
func NewProductRepository(store kvstore.Store, locks *KeyMutex, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		store:  store,
		locks:  locks,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// SaveAll stores the given products and replaces the product id index.
func (r *productRepository) SaveAll(ctx context.Context, products []model.Product) error {
	unlock := r.locks.Lock(productIDsKey)
	defer unlock()

	ids := make([]string, len(products))
	for i, product := range products {
		if err := r.store.Set(ctx, productKey(product.ID), product); err != nil {
			r.logger.Error().Err(err).Str("product_id", product.ID).Msg("failed to store product")
			return fmt.Errorf("failed to store product %s: %w", product.ID, err)
		}
		ids[i] = product.ID
	}

	if err := r.store.Set(ctx, productIDsKey, ids); err != nil {
		return fmt.Errorf("failed to store product index: %w", err)
	}

	r.logger.Info().Int("count", len(products)).Msg("products seeded")
	return nil
}

// GetAll retrieves all products in seeded order.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	var ids []string
	if _, err := r.store.Get(ctx, productIDsKey, &ids); err != nil {
		r.logger.Error().Err(err).Msg("failed to load product index")
		return nil, fmt.Errorf("failed to load product index: %w", err)
	}
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	raws, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	products := make([]model.Product, 0, len(raws))
	for i, raw := range raws {
		if raw == nil {
			continue
		}
		var product model.Product
		if err := json.Unmarshal(raw, &product); err != nil {
			return nil, fmt.Errorf("failed to decode product %s: %w", ids[i], err)
		}
		products = append(products, product)
	}
	return products, nil
}

// GetByID retrieves a single product, or nil when it does not exist.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	found, err := r.store.Get(ctx, productKey(id), &product)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to load product")
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if !found {
		r.logger.Debug().Str("product_id", id).Msg("product not found")
		return nil, nil
	}
	return &product, nil
}
