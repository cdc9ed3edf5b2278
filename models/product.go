package models

// Product is a catalog entry. The catalog is reference data: rows are
// seeded or upserted by id, never mutated through the basket flow.
type Product struct {
	ID              string  `gorm:"primaryKey" json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	ImageIdentifier string  `json:"image_identifier"`
	Category        string  `gorm:"default:General" json:"category"`
}

// TableName overrides GORM's pluralization to keep the layout stable.
func (Product) TableName() string { return "products" }

// DefaultCatalog returns the products seeded into an empty catalog.
func DefaultCatalog() []Product {
	return []Product{
		{
			ID:              "prod101",
			Name:            "Classic T-Shirt",
			Description:     "A comfortable and stylish classic t-shirt made from premium cotton.",
			Price:           29.99,
			ImageIdentifier: "img/classic-tshirt",
			Category:        "Apparel",
		},
		{
			ID:              "prod102",
			Name:            "Wireless Headphones",
			Description:     "High-fidelity wireless headphones with noise-cancellation.",
			Price:           149.50,
			ImageIdentifier: "img/wireless-headphones",
			Category:        "Electronics",
		},
		{
			ID:              "prod103",
			Name:            "Coffee Mug",
			Description:     "A sturdy ceramic coffee mug, perfect for your morning brew.",
			Price:           12.00,
			ImageIdentifier: "img/coffee-mug",
			Category:        "Home Goods",
		},
		{
			ID:              "prod104",
			Name:            "Running Shoes",
			Description:     "Lightweight and durable running shoes for all terrains.",
			Price:           89.99,
			ImageIdentifier: "img/running-shoes",
			Category:        "Footwear",
		},
		{
			ID:              "prod105",
			Name:            "Smartphone Stand",
			Description:     "Adjustable smartphone stand for your desk.",
			Price:           15.75,
			ImageIdentifier: "img/smartphone-stand",
			Category:        "Accessories",
		},
	}
}
