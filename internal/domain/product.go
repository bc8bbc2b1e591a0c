package domain

import "time"

// Product represents a product in the catalog. Prices are whole currency
// units (Korean won), so they fit an int64 without a decimal scale.
type Product struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Price     int64     `json:"price"`
	Stock     int       `json:"stock"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasStock checks whether the product can cover the requested quantity.
func (p *Product) HasStock(quantity int) bool {
	return p.Stock >= quantity
}
