package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/HyungJun-An/LookFit/internal/domain"
	"github.com/HyungJun-An/LookFit/internal/event"
	"github.com/HyungJun-An/LookFit/internal/repository"
	"github.com/HyungJun-An/LookFit/pkg/database"
	apperrors "github.com/HyungJun-An/LookFit/pkg/errors"
)

// OrderService implements checkout and order retrieval. Checkout runs as a
// single database transaction over the pool rather than through a repository:
// loading the cart, decrementing stock, writing the order and clearing the
// cart must commit or roll back as one unit.
type OrderService struct {
	pool              database.DBTX
	orders            repository.OrderRepository
	producer          *event.Producer
	logger            *slog.Logger
	lowStockThreshold int
}

// NewOrderService creates a new order service.
func NewOrderService(pool database.DBTX, orders repository.OrderRepository, producer *event.Producer, logger *slog.Logger, lowStockThreshold int) *OrderService {
	return &OrderService{
		pool:              pool,
		orders:            orders,
		producer:          producer,
		logger:            logger,
		lowStockThreshold: lowStockThreshold,
	}
}

// lowStockAlert collects post-commit notification state for one product.
type lowStockAlert struct {
	productID   string
	productName string
	quantity    int
	remaining   int
}

// PlaceOrder converts the member's cart into an order.
//
// Within one transaction it loads the cart, conditionally decrements stock
// for every line, inserts the order with its frozen line items, and clears
// the cart. The decrement carries its own stock guard in the WHERE clause,
// so two members racing for the last unit can never both succeed: the loser
// matches zero rows and the whole checkout rolls back untouched.
func (s *OrderService) PlaceOrder(ctx context.Context, memberID string, shipping domain.ShippingInfo) (*domain.Order, error) {
	if memberID == "" {
		return nil, apperrors.InvalidInput("member_id is required")
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin checkout transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Load the cart inside the transaction so the snapshot we price from is
	// the same one we delete at the end.
	cartQuery := `
		SELECT product_id, quantity, product_name, product_price
		FROM cart_items
		WHERE member_id = $1
		ORDER BY created_at`

	rows, err := tx.Query(ctx, cartQuery, memberID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var lines []domain.CartItem
	for rows.Next() {
		line := domain.CartItem{MemberID: memberID}
		if err := rows.Scan(&line.ProductID, &line.Quantity, &line.ProductName, &line.ProductPrice); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart lines: %w", err)
	}

	if len(lines) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	// Decrement stock per line. The guard in the WHERE clause makes each
	// decrement atomic; zero rows back means either a missing product or
	// not enough stock, and either way the transaction aborts.
	decrementQuery := `
		UPDATE products
		SET stock = stock - $1, updated_at = NOW()
		WHERE product_id = $2 AND stock >= $1
		RETURNING stock`

	alerts := make([]lowStockAlert, 0, len(lines))
	for _, line := range lines {
		var remaining int
		err := tx.QueryRow(ctx, decrementQuery, line.Quantity, line.ProductID).Scan(&remaining)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				return nil, fmt.Errorf("decrement stock for %s: %w", line.ProductID, err)
			}
			return nil, s.diagnoseDecrementFailure(ctx, tx, line)
		}
		alerts = append(alerts, lowStockAlert{
			productID:   line.ProductID,
			productName: line.ProductName,
			quantity:    line.Quantity,
			remaining:   remaining,
		})
	}

	// Total comes from the cart's price snapshot, matching what the member
	// saw in the cart, not the current catalog price.
	cart := domain.Cart{MemberID: memberID, Items: lines}
	totalPrice := cart.TotalPrice()

	orderQuery := `
		INSERT INTO orders (member_id, recipient_name, recipient_address, recipient_phone, delivery_request, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING order_no, ordered_at`

	order := &domain.Order{
		MemberID:   memberID,
		Shipping:   shipping,
		TotalPrice: totalPrice,
	}
	err = tx.QueryRow(ctx, orderQuery,
		memberID,
		shipping.RecipientName,
		shipping.RecipientAddress,
		shipping.RecipientPhone,
		shipping.DeliveryRequest,
		totalPrice,
	).Scan(&order.OrderNo, &order.OrderedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_no, product_id, product_name, product_price, quantity, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)`

	order.Items = make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		item := domain.NewOrderItem(line)
		item.OrderNo = order.OrderNo
		if _, err := tx.Exec(ctx, itemQuery,
			item.OrderNo, item.ProductID, item.ProductName, item.ProductPrice, item.Quantity, item.Subtotal,
		); err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE member_id = $1`, memberID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit checkout transaction: %w", err)
	}

	// Events go out after commit. Publishing failures are logged, never
	// surfaced: the order already exists.
	if err := s.producer.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order.placed event",
			slog.Int64("order_no", order.OrderNo),
			slog.String("error", err.Error()),
		)
	}
	for _, a := range alerts {
		if err := s.producer.PublishStockAdjusted(ctx, a.productID, -a.quantity, a.remaining, "order.placed"); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish product.stock_adjusted event",
				slog.String("product_id", a.productID),
				slog.String("error", err.Error()),
			)
		}
		if a.remaining <= s.lowStockThreshold {
			if err := s.producer.PublishLowStock(ctx, a.productID, a.productName, a.remaining, s.lowStockThreshold); err != nil {
				s.logger.ErrorContext(ctx, "failed to publish product.low_stock event",
					slog.String("product_id", a.productID),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.Int64("order_no", order.OrderNo),
		slog.String("member_id", memberID),
		slog.Int("line_count", len(order.Items)),
		slog.Int64("total_price", totalPrice),
	)

	return order, nil
}

// diagnoseDecrementFailure tells a vanished product apart from insufficient
// stock after a conditional decrement matched no rows.
func (s *OrderService) diagnoseDecrementFailure(ctx context.Context, tx pgx.Tx, line domain.CartItem) error {
	var available int
	err := tx.QueryRow(ctx, `SELECT stock FROM products WHERE product_id = $1`, line.ProductID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("product", line.ProductID)
		}
		return fmt.Errorf("check stock for %s: %w", line.ProductID, err)
	}
	return apperrors.Conflict(fmt.Sprintf(
		"insufficient stock for %s: requested %d, available %d",
		line.ProductName, line.Quantity, available,
	))
}

// GetOrder retrieves one order, enforcing that it belongs to the caller.
func (s *OrderService) GetOrder(ctx context.Context, memberID string, orderNo int64) (*domain.Order, error) {
	order, err := s.orders.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", orderNo, err)
	}
	if order.MemberID != memberID {
		return nil, apperrors.Forbidden("order belongs to another member")
	}
	return order, nil
}

// ListOrders returns the caller's order history, newest first.
func (s *OrderService) ListOrders(ctx context.Context, memberID string, page, perPage int) ([]domain.Order, int, error) {
	if memberID == "" {
		return nil, 0, apperrors.InvalidInput("member_id is required")
	}
	orders, total, err := s.orders.ListByMember(ctx, memberID, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}
