package service

import (
	"context"
	"testing"

	"bidkart/internal/kvstore"
	"bidkart/internal/model"
	"bidkart/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture(t *testing.T) CatalogService {
	t.Helper()
	store := kvstore.NewMemoryStore()
	productRepo := repository.NewProductRepository(store, repository.NewKeyMutex(), zerolog.Nop())
	return NewCatalogService(productRepo, zerolog.Nop())
}

func seedCatalog(t *testing.T, svc CatalogService) {
	t.Helper()
	_, err := svc.Seed(context.Background(), []model.Product{
		{ID: "p-1", Name: "Galaxy S24", Category: "Electronics", Brand: "Samsung", Price: 79999, Trending: true, Color: "black"},
		{ID: "p-2", Name: "Linen Kurta", Category: "Fashion", Brand: "FabIndia", Price: 2499, Sustainable: true, Occasion: "festive"},
		{ID: "p-3", Name: "Galaxy Buds", Category: "Electronics", Brand: "Samsung", Price: 11999, DealType: "flash"},
	})
	require.NoError(t, err)
}

func TestSeedValidation(t *testing.T) {
	svc := newCatalogFixture(t)
	ctx := context.Background()

	_, err := svc.Seed(ctx, []model.Product{{Name: "no id"}})
	require.Error(t, err)
	var domainErr *model.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, model.ErrCodeMissingField, domainErr.Code)

	_, err = svc.Seed(ctx, []model.Product{{ID: "p-1"}})
	require.Error(t, err)

	count, err := svc.Seed(ctx, []model.Product{{ID: "p-1", Name: "ok"}})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSeedReplacesAndPreservesOrder(t *testing.T) {
	svc := newCatalogFixture(t)
	ctx := context.Background()
	seedCatalog(t, svc)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"p-1", "p-2", "p-3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	// Re-seeding replaces the catalogue.
	_, err = svc.Seed(ctx, []model.Product{{ID: "p-9", Name: "Only"}})
	require.NoError(t, err)
	all, err = svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "p-9", all[0].ID)
}

func TestGetByID(t *testing.T) {
	svc := newCatalogFixture(t)
	seedCatalog(t, svc)

	got, err := svc.GetByID(context.Background(), "p-2")
	require.NoError(t, err)
	assert.Equal(t, "Linen Kurta", got.Name)

	_, err = svc.GetByID(context.Background(), "absent")
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestSearch(t *testing.T) {
	svc := newCatalogFixture(t)
	seedCatalog(t, svc)
	ctx := context.Background()

	// Case-insensitive substring over name, category and brand.
	got, err := svc.Search(ctx, &model.SearchRequest{Query: "galaxy"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p-1", got[0].ID, "seeded order preserved")

	got, err = svc.Search(ctx, &model.SearchRequest{Query: "samsung"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Query and filters intersect.
	maxPrice := int64(50000)
	got, err = svc.Search(ctx, &model.SearchRequest{
		Query:   "galaxy",
		Filters: &model.SearchFilters{MaxPrice: &maxPrice},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p-3", got[0].ID)

	// Attribute-only search.
	sustainable := true
	got, err = svc.Search(ctx, &model.SearchRequest{Filters: &model.SearchFilters{Sustainable: &sustainable}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p-2", got[0].ID)

	// Empty request matches everything.
	got, err = svc.Search(ctx, &model.SearchRequest{})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// No match is an empty slice, not an error.
	got, err = svc.Search(ctx, &model.SearchRequest{Query: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
