package database

import (
	"context"
	"errors"

	"basket-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the catalog store contract. The catalog is
// reference data: it is upserted in bulk and read by everyone, but never
// mutated through the basket flow.
type ProductRepository interface {
	UpsertAll(ctx context.Context, products []models.Product) error
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Count(ctx context.Context) (int64, error)
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db   *gorm.DB
	feed *Changefeed
}

// NewGormProductRepository creates a new GormProductRepository. The feed
// may be nil when reactivity is not needed (e.g. one-off tooling).
func NewGormProductRepository(db *gorm.DB, feed *Changefeed) *GormProductRepository {
	return &GormProductRepository{db: db, feed: feed}
}

// UpsertAll inserts or replaces products by id; last write wins.
func (r *GormProductRepository) UpsertAll(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&products).Error
	if err != nil {
		return err
	}

	r.publish()
	return nil
}

// GetAll returns the full product set ordered by id.
func (r *GormProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).Order("id").Find(&products).Error
	return products, err
}

// GetByID returns the product or nil when no such id exists; absence is
// not an error.
func (r *GormProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Count reports the catalog size; used by the seeding policy.
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error
	return n, err
}

func (r *GormProductRepository) publish() {
	if r.feed != nil {
		r.feed.Publish(Event{Table: "products"})
	}
}
