package postgres

import (
	"context"
	"fmt"

	"github.com/HyungJun-An/LookFit/internal/domain"
	"github.com/HyungJun-An/LookFit/pkg/database"
	apperrors "github.com/HyungJun-An/LookFit/pkg/errors"
)

// CartRepository implements repository.CartRepository using PostgreSQL. Carts
// live in the same database as products and orders so checkout can clear the
// cart inside the order transaction.
type CartRepository struct {
	pool database.DBTX
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool database.DBTX) *CartRepository {
	return &CartRepository{pool: pool}
}

// GetCart loads all cart lines for a member, oldest first.
func (r *CartRepository) GetCart(ctx context.Context, memberID string) (*domain.Cart, error) {
	query := `
		SELECT member_id, product_id, quantity, product_name, product_price, image_url, created_at, updated_at
		FROM cart_items
		WHERE member_id = $1
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	defer rows.Close()

	cart := &domain.Cart{MemberID: memberID, Items: []domain.CartItem{}}
	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.MemberID, &item.ProductID, &item.Quantity,
			&item.ProductName, &item.ProductPrice, &item.ImageURL,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}

	return cart, nil
}

// UpsertItem inserts a cart line or adds to the quantity of an existing line.
// The snapshot columns are refreshed from the incoming item so a stale cart
// line picks up the current catalog name and price.
func (r *CartRepository) UpsertItem(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart_items (member_id, product_id, quantity, product_name, product_price, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (member_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity,
			product_name = EXCLUDED.product_name,
			product_price = EXCLUDED.product_price,
			image_url = EXCLUDED.image_url,
			updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query,
		item.MemberID, item.ProductID, item.Quantity,
		item.ProductName, item.ProductPrice, item.ImageURL,
	); err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

// UpdateQuantity replaces the quantity of an existing cart line.
func (r *CartRepository) UpdateQuantity(ctx context.Context, memberID, productID string, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE member_id = $1 AND product_id = $2`

	tag, err := r.pool.Exec(ctx, query, memberID, productID, quantity)
	if err != nil {
		return fmt.Errorf("update cart quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("cart item", productID)
	}
	return nil
}

// RemoveItem deletes one cart line.
func (r *CartRepository) RemoveItem(ctx context.Context, memberID, productID string) error {
	query := `DELETE FROM cart_items WHERE member_id = $1 AND product_id = $2`

	tag, err := r.pool.Exec(ctx, query, memberID, productID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("cart item", productID)
	}
	return nil
}

// Clear deletes every cart line for a member. Clearing an already-empty cart
// is not an error.
func (r *CartRepository) Clear(ctx context.Context, memberID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE member_id = $1`, memberID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
