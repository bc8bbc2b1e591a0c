package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/HyungJun-An/LookFit/internal/domain"
	"github.com/HyungJun-An/LookFit/internal/repository"
	"github.com/HyungJun-An/LookFit/pkg/database"
	apperrors "github.com/HyungJun-An/LookFit/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// Upsert inserts a product or updates the catalog fields of an existing one.
// Stock is only taken from p on first insert; existing rows keep their stock.
func (r *ProductRepository) Upsert(ctx context.Context, p *domain.Product) error {
	query := `
		INSERT INTO products (product_id, name, category, price, stock, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id) DO UPDATE
		SET name = EXCLUDED.name,
			category = EXCLUDED.category,
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		p.ProductID, p.Name, p.Category, p.Price, p.Stock, p.ImageURL,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `
		SELECT product_id, name, category, price, stock, image_url, created_at, updated_at
		FROM products
		WHERE product_id = $1`

	var p domain.Product
	err := r.pool.QueryRow(ctx, query, productID).Scan(
		&p.ProductID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

// List returns products matching the filter with the total count.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *filter.Category)
		argIndex++
	}

	if filter.Keyword != nil {
		conditions = append(conditions, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", argIndex))
		args = append(args, *filter.Keyword)
		argIndex++
	}

	if filter.InStock {
		conditions = append(conditions, "stock > 0")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Use count(*) OVER() for total count in a single query.
	query := fmt.Sprintf(`
		SELECT product_id, name, category, price, stock, image_url, created_at, updated_at,
			   count(*) OVER() AS total_count
		FROM products
		%s
		ORDER BY product_id
		LIMIT $%d OFFSET $%d`,
		whereClause, argIndex, argIndex+1,
	)

	limit := filter.PerPage
	if limit <= 0 {
		limit = 20
	}
	offset := 0
	if filter.Page > 1 {
		offset = (filter.Page - 1) * limit
	}

	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var totalCount int
	products := make([]domain.Product, 0)

	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ProductID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.ImageURL,
			&p.CreatedAt, &p.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}

	return products, totalCount, nil
}

// AdjustStock changes stock by delta without ever letting it go below zero.
// The guard lives in the UPDATE itself so concurrent adjustments cannot race
// past each other.
func (r *ProductRepository) AdjustStock(ctx context.Context, productID string, delta int) (*domain.Product, error) {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE product_id = $1 AND stock + $2 >= 0
		RETURNING product_id, name, category, price, stock, image_url, created_at, updated_at`

	var p domain.Product
	err := r.pool.QueryRow(ctx, query, productID, delta).Scan(
		&p.ProductID, &p.Name, &p.Category, &p.Price, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}

	// Zero rows: either the product does not exist or the adjustment would
	// have driven stock negative. Look again to tell the two apart.
	existing, getErr := r.GetByID(ctx, productID)
	if getErr != nil {
		return nil, getErr
	}
	return nil, apperrors.Conflict(fmt.Sprintf(
		"stock adjustment of %d would exceed available stock %d for product %s",
		delta, existing.Stock, productID,
	))
}
