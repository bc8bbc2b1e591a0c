package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/HyungJun-An/LookFit/internal/domain"
	"github.com/HyungJun-An/LookFit/pkg/database"
	apperrors "github.com/HyungJun-An/LookFit/pkg/errors"
)

// OrderRepository implements repository.OrderRepository using PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// GetByOrderNo retrieves an order by its number, eagerly loading its items.
// Items are aggregated with JSONB_AGG so order plus items come back in a
// single query instead of two.
func (r *OrderRepository) GetByOrderNo(ctx context.Context, orderNo int64) (*domain.Order, error) {
	query := `
		SELECT
			o.order_no, o.member_id, o.recipient_name, o.recipient_address,
			o.recipient_phone, o.delivery_request, o.total_price, o.ordered_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'item_id', oi.item_id,
						'order_no', oi.order_no,
						'product_id', oi.product_id,
						'product_name', oi.product_name,
						'product_price', oi.product_price,
						'quantity', oi.quantity,
						'subtotal', oi.subtotal
					) ORDER BY oi.item_id
				) FILTER (WHERE oi.item_id IS NOT NULL),
				'[]'::jsonb
			) AS items
		FROM orders o
		LEFT JOIN order_items oi ON o.order_no = oi.order_no
		WHERE o.order_no = $1
		GROUP BY o.order_no, o.member_id, o.recipient_name, o.recipient_address,
			o.recipient_phone, o.delivery_request, o.total_price, o.ordered_at`

	var (
		o         domain.Order
		itemsJSON []byte
	)

	err := r.pool.QueryRow(ctx, query, orderNo).Scan(
		&o.OrderNo,
		&o.MemberID,
		&o.Shipping.RecipientName,
		&o.Shipping.RecipientAddress,
		&o.Shipping.RecipientPhone,
		&o.Shipping.DeliveryRequest,
		&o.TotalPrice,
		&o.OrderedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", fmt.Sprintf("%d", orderNo))
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	o.Items = []domain.OrderItem{}
	if len(itemsJSON) > 0 && string(itemsJSON) != "null" && string(itemsJSON) != "[]" {
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}

	return &o, nil
}

// ListByMember returns a member's orders, newest first, with the total count.
// The listing carries order headers only; items load on the detail view.
func (r *OrderRepository) ListByMember(ctx context.Context, memberID string, page, perPage int) ([]domain.Order, int, error) {
	query := `
		SELECT order_no, member_id, recipient_name, recipient_address,
			   recipient_phone, delivery_request, total_price, ordered_at,
			   count(*) OVER() AS total_count
		FROM orders
		WHERE member_id = $1
		ORDER BY ordered_at DESC, order_no DESC
		LIMIT $2 OFFSET $3`

	limit := perPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}

	rows, err := r.pool.Query(ctx, query, memberID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)

	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.OrderNo,
			&o.MemberID,
			&o.Shipping.RecipientName,
			&o.Shipping.RecipientAddress,
			&o.Shipping.RecipientPhone,
			&o.Shipping.DeliveryRequest,
			&o.TotalPrice,
			&o.OrderedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate orders: %w", err)
	}

	return orders, totalCount, nil
}
