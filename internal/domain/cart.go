package domain

import "time"

// CartItem is one product line in a member's cart. Name, price and image are
// snapshotted from the catalog when the item is added, so the cart renders
// without joining back to products.
type CartItem struct {
	MemberID     string    `json:"member_id"`
	ProductID    string    `json:"product_id"`
	Quantity     int       `json:"quantity"`
	ProductName  string    `json:"product_name"`
	ProductPrice int64     `json:"product_price"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Subtotal returns the line total for this cart item.
func (i *CartItem) Subtotal() int64 {
	return i.ProductPrice * int64(i.Quantity)
}

// Cart is the full set of cart lines belonging to one member.
type Cart struct {
	MemberID string     `json:"member_id"`
	Items    []CartItem `json:"items"`
}

// TotalPrice calculates the total price of all items in the cart.
func (c *Cart) TotalPrice() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].Subtotal()
	}
	return total
}

// ItemCount returns the total number of units across all cart lines.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
