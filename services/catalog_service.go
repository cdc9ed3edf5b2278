package services

import (
	"context"

	"basket-service/cache"
	"basket-service/database"
	"basket-service/models"

	"go.uber.org/zap"
)

// CatalogService wraps the product store with the seeding policy and an
// optional Redis read-through cache. The store itself never seeds; this
// layer decides when the catalog is empty and what goes in.
type CatalogService struct {
	products database.ProductRepository
	cache    *cache.CatalogCache
	logger   *zap.Logger
}

// NewCatalogService creates a new CatalogService. cache may be nil, in
// which case every read goes to the store.
func NewCatalogService(products database.ProductRepository, cc *cache.CatalogCache, logger *zap.Logger) *CatalogService {
	return &CatalogService{products: products, cache: cc, logger: logger}
}

// EnsureSeeded inserts the default catalog when the product table is
// empty. A non-empty catalog is left untouched.
func (s *CatalogService) EnsureSeeded(ctx context.Context) error {
	n, err := s.products.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	seed := models.DefaultCatalog()
	if err := s.products.UpsertAll(ctx, seed); err != nil {
		return err
	}
	s.invalidate(ctx, seed)

	s.logger.Info("Seeded default catalog", zap.Int("products", len(seed)))
	return nil
}

// ListProducts returns the full catalog, served from cache when possible.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.cache != nil {
		if products, ok := s.cache.GetProductList(ctx); ok {
			return products, nil
		}
	}

	products, err := s.products.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetProductList(ctx, products)
	}
	return products, nil
}

// GetProduct returns one product or nil when the id does not resolve.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if s.cache != nil {
		if product, ok := s.cache.GetProduct(ctx, id); ok {
			return product, nil
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product != nil && s.cache != nil {
		s.cache.SetProduct(ctx, product)
	}
	return product, nil
}

// ReplaceProducts upserts catalog entries by id and invalidates the cache.
// Attached basket sessions pick the change up through the changefeed, so a
// price update surfaces in snapshots without any cart mutation.
func (s *CatalogService) ReplaceProducts(ctx context.Context, products []models.Product) error {
	if err := s.products.UpsertAll(ctx, products); err != nil {
		return err
	}
	s.invalidate(ctx, products)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, products []models.Product) {
	if s.cache == nil {
		return
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	s.cache.Invalidate(ctx, ids...)
}
