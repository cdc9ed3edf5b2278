package models

// CartItem is one persisted line of a user's cart. A row only exists while
// its quantity is positive; driving the quantity to zero deletes it.
// At most one row exists per (user_id, product_id).
type CartItem struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string `gorm:"index:idx_cart_user_product,unique" json:"user_id"`
	ProductID string `gorm:"index:idx_cart_user_product,unique" json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (CartItem) TableName() string { return "cart_items" }

// CartItemWithProduct is the read-side join of a cart line with its product.
// It is recomputed on every read and never persisted; lines whose product id
// no longer resolves simply drop out of the join.
type CartItemWithProduct struct {
	CartItemID             uint    `json:"cart_item_id"`
	UserID                 string  `json:"user_id"`
	ProductID              string  `json:"product_id"`
	Quantity               int     `json:"quantity"`
	ProductName            string  `json:"product_name"`
	ProductDescription     string  `json:"product_description"`
	ProductPrice           float64 `json:"product_price"`
	ProductImageIdentifier string  `json:"product_image_identifier"`
	ProductCategory        string  `json:"product_category"`
}

// CartDisplayItem is one fully-resolved line in the UI-facing snapshot.
type CartDisplayItem struct {
	ProductID       string  `json:"product_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	ImageIdentifier string  `json:"image_identifier"`
	Category        string  `json:"category"`
	Quantity        int     `json:"quantity"`
	LineID          uint    `json:"line_id"`
}

// CartSnapshot is the reactive view pushed to subscribers. On a persistence
// failure the previous items and total are retained and Error is set; the
// next successful recompute clears it.
type CartSnapshot struct {
	Items      []CartDisplayItem `json:"items"`
	TotalPrice float64           `json:"total_price"`
	IsLoading  bool              `json:"is_loading"`
	Error      string            `json:"error,omitempty"`
}

// AddItemRequest is the payload for POST /cart/items.
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// SetQuantityRequest is the payload for PUT /cart/items/:product_id.
// Zero and negative quantities are accepted and delete the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}
