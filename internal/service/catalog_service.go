package service

import (
	"context"
	"fmt"
	"strings"

	"bidkart/internal/model"
	"bidkart/internal/repository"

	"github.com/rs/zerolog"
)

// catalogService implements CatalogService.
type catalogService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalogue service.
func NewCatalogService(productRepo repository.ProductRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// Seed stores the given products, replacing the catalogue.
func (s *catalogService) Seed(ctx context.Context, products []model.Product) (int, error) {
	for i, product := range products {
		if product.ID == "" {
			return 0, model.NewDomainError(model.ErrCodeMissingField, fmt.Sprintf("product %d: id is required", i))
		}
		if product.Name == "" {
			return 0, model.NewDomainError(model.ErrCodeMissingField, fmt.Sprintf("product %d: name is required", i))
		}
	}

	if err := s.productRepo.SaveAll(ctx, products); err != nil {
		s.logger.Error().Err(err).Int("count", len(products)).Msg("failed to seed products")
		return 0, fmt.Errorf("failed to seed products: %w", err)
	}
	return len(products), nil
}

// GetAll returns all products in seeded order.
func (s *catalogService) GetAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// GetByID returns a single product.
func (s *catalogService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

// Search filters the catalogue by a substring query over name, category
// and brand, intersected with the attribute filters. Results keep seeded
// order; there is no ranking.
func (s *catalogService) Search(ctx context.Context, req *model.SearchRequest) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products for search: %w", err)
	}

	matched := make([]model.Product, 0, len(products))
	for _, product := range products {
		if req.Query != "" && !matchesQuery(product, req.Query) {
			continue
		}
		if req.Filters != nil && !matchesFilters(product, req.Filters) {
			continue
		}
		matched = append(matched, product)
	}

	s.logger.Debug().
		Str("query", req.Query).
		Int("matched", len(matched)).
		Int("total", len(products)).
		Msg("product search")

	return matched, nil
}

func matchesQuery(p model.Product, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Category), q) ||
		strings.Contains(strings.ToLower(p.Brand), q)
}

func matchesFilters(p model.Product, f *model.SearchFilters) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Brand != "" && p.Brand != f.Brand {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.DeliveryTime != "" && p.DeliveryTime != f.DeliveryTime {
		return false
	}
	if f.Mood != "" && p.Mood != f.Mood {
		return false
	}
	if f.Occasion != "" && p.Occasion != f.Occasion {
		return false
	}
	if f.DealType != "" && p.DealType != f.DealType {
		return false
	}
	if f.Sustainable != nil && p.Sustainable != *f.Sustainable {
		return false
	}
	if f.ForWho != "" && p.ForWho != f.ForWho {
		return false
	}
	if f.Trending != nil && p.Trending != *f.Trending {
		return false
	}
	if f.Color != "" && p.Color != f.Color {
		return false
	}
	return true
}
