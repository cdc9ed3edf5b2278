package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"basket-service/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	productKeyPrefix = "product:detail:"
	listKeyPrefix    = "products:v:"
	versionKey       = "products:version"
)

// CatalogCache is a read-through Redis cache for catalog reads. List
// entries are keyed by a version counter; bumping the version on every
// catalog write invalidates all cached lists without scanning keys.
type CatalogCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *CatalogCache {
	return &CatalogCache{redis: client, ttl: ttl, logger: logger}
}

// GetProduct retrieves a cached product detail.
func (c *CatalogCache) GetProduct(ctx context.Context, id string) (*models.Product, bool) {
	data, err := c.redis.Get(ctx, productKeyPrefix+id).Result()
	if err != nil {
		return nil, false
	}

	var product models.Product
	if err := json.Unmarshal([]byte(data), &product); err != nil {
		c.logger.Warn("Failed to unmarshal cached product", zap.String("id", id), zap.Error(err))
		return nil, false
	}
	return &product, true
}

// SetProduct caches a product detail.
func (c *CatalogCache) SetProduct(ctx context.Context, product *models.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, productKeyPrefix+product.ID, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache product", zap.String("id", product.ID), zap.Error(err))
	}
}

// GetProductList retrieves the cached full product list for the current
// cache version.
func (c *CatalogCache) GetProductList(ctx context.Context) ([]models.Product, bool) {
	version, err := c.redis.Get(ctx, versionKey).Int64()
	if err != nil || version == 0 {
		return nil, false
	}

	data, err := c.redis.Get(ctx, c.listKey(version)).Result()
	if err != nil {
		return nil, false
	}

	var products []models.Product
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		c.logger.Warn("Failed to unmarshal cached product list", zap.Error(err))
		return nil, false
	}
	return products, true
}

// SetProductList caches the full product list under the current version.
func (c *CatalogCache) SetProductList(ctx context.Context, products []models.Product) {
	version, err := c.redis.Get(ctx, versionKey).Int64()
	if err != nil || version == 0 {
		version = 1
		if err := c.redis.Set(ctx, versionKey, version, 0).Err(); err != nil {
			return
		}
	}

	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.listKey(version), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to cache product list", zap.Error(err))
	}
}

// Invalidate bumps the cache version so stale lists are no longer served,
// and drops the detail entries for the given ids.
func (c *CatalogCache) Invalidate(ctx context.Context, ids ...string) {
	if err := c.redis.Incr(ctx, versionKey).Err(); err != nil {
		c.logger.Warn("Failed to bump catalog cache version", zap.Error(err))
	}
	for _, id := range ids {
		if err := c.redis.Del(ctx, productKeyPrefix+id).Err(); err != nil {
			c.logger.Warn("Failed to evict cached product", zap.String("id", id), zap.Error(err))
		}
	}
}

func (c *CatalogCache) listKey(version int64) string {
	return fmt.Sprintf("%s%d:all", listKeyPrefix, version)
}
