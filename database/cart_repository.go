package database

import (
	"context"
	"errors"

	"basket-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository defines the cart store contract. All mutations are scoped
// to a single user and every successful write publishes a user-scoped
// change event.
type CartRepository interface {
	GetItem(ctx context.Context, userID, productID string) (*models.CartItem, error)
	InsertItem(ctx context.Context, item *models.CartItem) error
	UpdateItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
	GetItems(ctx context.Context, userID string) ([]models.CartItem, error)
	GetItemsWithProducts(ctx context.Context, userID string) ([]models.CartItemWithProduct, error)
}

// GormCartRepository implements CartRepository using GORM.
type GormCartRepository struct {
	db   *gorm.DB
	feed *Changefeed
}

// NewGormCartRepository creates a new GormCartRepository.
func NewGormCartRepository(db *gorm.DB, feed *Changefeed) *GormCartRepository {
	return &GormCartRepository{db: db, feed: feed}
}

// GetItem returns the line for (userID, productID) or nil when absent.
func (r *GormCartRepository) GetItem(ctx context.Context, userID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// InsertItem inserts a new line; on a (user_id, product_id) conflict the
// existing row is replaced rather than erroring.
func (r *GormCartRepository) InsertItem(ctx context.Context, item *models.CartItem) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity"}),
		}).
		Create(item).Error
	if err != nil {
		return err
	}

	r.publish(item.UserID)
	return nil
}

// UpdateItem overwrites an existing line by surrogate id.
func (r *GormCartRepository) UpdateItem(ctx context.Context, item *models.CartItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return err
	}

	r.publish(item.UserID)
	return nil
}

// DeleteItem removes the line for (userID, productID); removing an absent
// line is a no-op.
func (r *GormCartRepository) DeleteItem(ctx context.Context, userID, productID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error
	if err != nil {
		return err
	}

	r.publish(userID)
	return nil
}

// Clear removes every line belonging to the user.
func (r *GormCartRepository) Clear(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
	if err != nil {
		return err
	}

	r.publish(userID)
	return nil
}

// GetItems returns the raw lines for a user.
func (r *GormCartRepository) GetItems(ctx context.Context, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&items).Error
	return items, err
}

// GetItemsWithProducts returns the user's lines joined with their products.
// Lines whose product id does not resolve are dropped by the inner join.
func (r *GormCartRepository) GetItemsWithProducts(ctx context.Context, userID string) ([]models.CartItemWithProduct, error) {
	var rows []models.CartItemWithProduct
	err := r.db.WithContext(ctx).
		Table("cart_items AS ci").
		Select(`ci.id AS cart_item_id, ci.user_id, ci.product_id, ci.quantity,
			p.name AS product_name, p.description AS product_description,
			p.price AS product_price, p.image_identifier AS product_image_identifier,
			p.category AS product_category`).
		Joins("INNER JOIN products p ON ci.product_id = p.id").
		Where("ci.user_id = ?", userID).
		Order("ci.id").
		Scan(&rows).Error
	return rows, err
}

func (r *GormCartRepository) publish(userID string) {
	if r.feed != nil {
		r.feed.Publish(Event{Table: "cart_items", UserID: userID})
	}
}
