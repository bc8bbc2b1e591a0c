package repository

import (
	"context"

	"github.com/HyungJun-An/LookFit/internal/domain"
)

// ProductFilter defines filter criteria for listing catalog products.
type ProductFilter struct {
	Category *string
	Keyword  *string
	InStock  bool
	Page     int
	PerPage  int
}

// ProductRepository defines persistence operations for catalog products.
type ProductRepository interface {
	// Upsert inserts a product or updates name, price and image for an
	// existing product ID. Stock is only set on first insert; later stock
	// changes go through AdjustStock.
	Upsert(ctx context.Context, p *domain.Product) error

	// GetByID retrieves a product by its ID.
	GetByID(ctx context.Context, productID string) (*domain.Product, error)

	// List returns products matching the filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// AdjustStock changes stock by delta (positive restock, negative
	// write-off) and returns the updated product. The adjustment is atomic
	// and never lets stock go below zero.
	AdjustStock(ctx context.Context, productID string, delta int) (*domain.Product, error)
}

// CartRepository defines persistence operations for member carts.
type CartRepository interface {
	// GetCart loads all cart lines for a member, oldest first.
	GetCart(ctx context.Context, memberID string) (*domain.Cart, error)

	// UpsertItem inserts a cart line, or adds its quantity to an existing
	// line for the same member and product. The catalog snapshot columns
	// are refreshed on conflict.
	UpsertItem(ctx context.Context, item *domain.CartItem) error

	// UpdateQuantity replaces the quantity of an existing cart line.
	UpdateQuantity(ctx context.Context, memberID, productID string, quantity int) error

	// RemoveItem deletes one cart line.
	RemoveItem(ctx context.Context, memberID, productID string) error

	// Clear deletes every cart line for a member.
	Clear(ctx context.Context, memberID string) error
}

// OrderRepository defines read operations for placed orders. Order creation
// is not here: it happens inside the checkout transaction, which also
// decrements stock and clears the cart in the same unit of work.
type OrderRepository interface {
	// GetByOrderNo retrieves an order by its number, eagerly loading items.
	GetByOrderNo(ctx context.Context, orderNo int64) (*domain.Order, error)

	// ListByMember returns a member's orders, newest first, with the total count.
	ListByMember(ctx context.Context, memberID string, page, perPage int) ([]domain.Order, int, error)
}

// ProductCache is a read-through cache for single-product lookups. Checkout
// never reads it; stock shown from cache is advisory only.
type ProductCache interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
	Set(ctx context.Context, p *domain.Product) error
	Invalidate(ctx context.Context, productID string) error
}
