package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HyungJun-An/LookFit/internal/domain"
	"github.com/HyungJun-An/LookFit/internal/repository"
	"github.com/HyungJun-An/LookFit/pkg/database"
	apperrors "github.com/HyungJun-An/LookFit/pkg/errors"
)

// --- Test Helpers ---

func newProductRepo(t *testing.T) (*ProductRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return NewProductRepository(mock), mock
}

func sampleProduct() *domain.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Product{
		ProductID: "P001",
		Name:      "Oversized Hoodie",
		Category:  "tops",
		Price:     49000,
		Stock:     10,
		ImageURL:  "https://img.example.com/p001.jpg",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func productRows(p *domain.Product) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"product_id", "name", "category", "price", "stock", "image_url", "created_at", "updated_at",
	}).AddRow(p.ProductID, p.Name, p.Category, p.Price, p.Stock, p.ImageURL, p.CreatedAt, p.UpdatedAt)
}

// --- Upsert Tests ---

func TestProductRepository_Upsert_Success(t *testing.T) {
	repo, mock := newProductRepo(t)

	p := sampleProduct()
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO products").
		WithArgs(p.ProductID, p.Name, p.Category, p.Price, p.Stock, p.ImageURL).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err := repo.Upsert(context.Background(), p)
	assert.NoError(t, err)
	assert.Equal(t, now, p.CreatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Upsert_QueryError(t *testing.T) {
	repo, mock := newProductRepo(t)

	p := sampleProduct()

	mock.ExpectQuery("INSERT INTO products").
		WithArgs(p.ProductID, p.Name, p.Category, p.Price, p.Stock, p.ImageURL).
		WillReturnError(errors.New("connection refused"))

	err := repo.Upsert(context.Background(), p)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "upsert product")
}

// --- GetByID Tests ---

func TestProductRepository_GetByID_Success(t *testing.T) {
	repo, mock := newProductRepo(t)

	p := sampleProduct()
	mock.ExpectQuery("SELECT product_id, name, category, price, stock").
		WithArgs("P001").
		WillReturnRows(productRows(p))

	got, err := repo.GetByID(context.Background(), "P001")
	require.NoError(t, err)
	assert.Equal(t, p.ProductID, got.ProductID)
	assert.Equal(t, p.Name, got.Name)
	assert.Equal(t, p.Price, got.Price)
	assert.Equal(t, p.Stock, got.Stock)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newProductRepo(t)

	mock.ExpectQuery("SELECT product_id, name, category, price, stock").
		WithArgs("P999").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "P999")
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- List Tests ---

func TestProductRepository_List_Success(t *testing.T) {
	repo, mock := newProductRepo(t)

	p := sampleProduct()
	rows := pgxmock.NewRows([]string{
		"product_id", "name", "category", "price", "stock", "image_url", "created_at", "updated_at", "total_count",
	}).
		AddRow("P001", "Oversized Hoodie", "tops", int64(49000), 10, "", p.CreatedAt, p.UpdatedAt, 2).
		AddRow("P002", "Slim Jeans", "bottoms", int64(59000), 4, "", p.CreatedAt, p.UpdatedAt, 2)

	mock.ExpectQuery("SELECT product_id, name, category, price, stock").
		WithArgs(20, 0).
		WillReturnRows(rows)

	products, total, err := repo.List(context.Background(), repository.ProductFilter{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, "P002", products[1].ProductID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_KeywordFilter(t *testing.T) {
	repo, mock := newProductRepo(t)

	keyword := "hoodie"
	p := sampleProduct()
	rows := pgxmock.NewRows([]string{
		"product_id", "name", "category", "price", "stock", "image_url", "created_at", "updated_at", "total_count",
	}).AddRow("P001", "Oversized Hoodie", "tops", int64(49000), 10, "", p.CreatedAt, p.UpdatedAt, 1)

	mock.ExpectQuery("SELECT product_id, name, category, price, stock").
		WithArgs(keyword, 20, 0).
		WillReturnRows(rows)

	products, total, err := repo.List(context.Background(), repository.ProductFilter{
		Keyword: &keyword, Page: 1, PerPage: 20,
	})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
}

func TestProductRepository_List_CategoryFilter(t *testing.T) {
	repo, mock := newProductRepo(t)

	category := "tops"
	p := sampleProduct()
	rows := pgxmock.NewRows([]string{
		"product_id", "name", "category", "price", "stock", "image_url", "created_at", "updated_at", "total_count",
	}).AddRow("P001", "Oversized Hoodie", "tops", int64(49000), 10, "", p.CreatedAt, p.UpdatedAt, 1)

	mock.ExpectQuery("SELECT product_id, name, category, price, stock").
		WithArgs(category, 20, 0).
		WillReturnRows(rows)

	products, total, err := repo.List(context.Background(), repository.ProductFilter{
		Category: &category, Page: 1, PerPage: 20,
	})
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "tops", products[0].Category)
}

func TestProductRepository_List_Empty(t *testing.T) {
	repo, mock := newProductRepo(t)

	mock.ExpectQuery("SELECT product_id, name, category, price, stock").
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows([]string{
			"product_id", "name", "category", "price", "stock", "image_url", "created_at", "updated_at", "total_count",
		}))

	products, total, err := repo.List(context.Background(), repository.ProductFilter{Page: 1, PerPage: 20})
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Len(t, products, 0)
	assert.Equal(t, 0, total)
}

// --- AdjustStock Tests ---

func TestProductRepository_AdjustStock_Restock(t *testing.T) {
	repo, mock := newProductRepo(t)

	p := sampleProduct()
	p.Stock = 15

	mock.ExpectQuery("UPDATE products").
		WithArgs("P001", 5).
		WillReturnRows(productRows(p))

	got, err := repo.AdjustStock(context.Background(), "P001", 5)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Stock)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_AdjustStock_NotFound(t *testing.T) {
	repo, mock := newProductRepo(t)

	mock.ExpectQuery("UPDATE products").
		WithArgs("P999", -1).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT product_id, name, category, price, stock").
		WithArgs("P999").
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.AdjustStock(context.Background(), "P999", -1)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestProductRepository_AdjustStock_WouldGoNegative(t *testing.T) {
	repo, mock := newProductRepo(t)

	p := sampleProduct()
	p.Stock = 3

	// Update matches no rows because the guard blocks it, then the lookup
	// finds the product, so the failure is a conflict rather than not-found.
	mock.ExpectQuery("UPDATE products").
		WithArgs("P001", -5).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("SELECT product_id, name, category, price, stock").
		WithArgs("P001").
		WillReturnRows(productRows(p))

	got, err := repo.AdjustStock(context.Background(), "P001", -5)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "available stock 3")
}
