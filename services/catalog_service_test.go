package services_test

import (
	"context"
	"testing"

	"basket-service/database"
	"basket-service/models"
	"basket-service/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalogFixture(t *testing.T) (*memoryProductRepository, *services.CatalogService) {
	t.Helper()
	db := newMemoryDB()
	repo := &memoryProductRepository{db: db, feed: database.NewChangefeed()}
	return repo, services.NewCatalogService(repo, nil, zap.NewNop())
}

func TestEnsureSeededPopulatesEmptyCatalog(t *testing.T) {
	repo, catalog := newCatalogFixture(t)
	ctx := context.Background()

	require.NoError(t, catalog.EnsureSeeded(ctx))

	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, products, len(models.DefaultCatalog()))
}

func TestEnsureSeededLeavesExistingCatalogAlone(t *testing.T) {
	repo, catalog := newCatalogFixture(t)
	ctx := context.Background()

	existing := []models.Product{{ID: "custom-1", Name: "Custom", Price: 1.0}}
	require.NoError(t, repo.UpsertAll(ctx, existing))

	require.NoError(t, catalog.EnsureSeeded(ctx))

	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "custom-1", products[0].ID)
}

func TestGetProductAbsentIsNil(t *testing.T) {
	_, catalog := newCatalogFixture(t)

	product, err := catalog.GetProduct(context.Background(), "nope")
	assert.NoError(t, err)
	assert.Nil(t, product)
}

func TestReplaceProductsLastWriteWins(t *testing.T) {
	repo, catalog := newCatalogFixture(t)
	ctx := context.Background()

	require.NoError(t, catalog.ReplaceProducts(ctx, []models.Product{{ID: "p1", Name: "One", Price: 10.0}}))
	require.NoError(t, catalog.ReplaceProducts(ctx, []models.Product{{ID: "p1", Name: "One", Price: 12.0}}))

	product, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, 12.0, product.Price)
}
