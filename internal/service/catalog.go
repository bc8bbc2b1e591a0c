package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/HyungJun-An/LookFit/internal/domain"
	"github.com/HyungJun-An/LookFit/internal/event"
	"github.com/HyungJun-An/LookFit/internal/repository"
	apperrors "github.com/HyungJun-An/LookFit/pkg/errors"
)

// CatalogService implements product catalog management with a cache-aside
// read path for single-product lookups.
type CatalogService struct {
	products          repository.ProductRepository
	cache             repository.ProductCache
	producer          *event.Producer
	logger            *slog.Logger
	lowStockThreshold int
}

// NewCatalogService creates a new catalog service. cache may be nil, in which
// case reads always hit the database.
func NewCatalogService(products repository.ProductRepository, cache repository.ProductCache, producer *event.Producer, logger *slog.Logger, lowStockThreshold int) *CatalogService {
	return &CatalogService{
		products:          products,
		cache:             cache,
		producer:          producer,
		logger:            logger,
		lowStockThreshold: lowStockThreshold,
	}
}

// UpsertProduct creates a product or updates its catalog fields.
func (s *CatalogService) UpsertProduct(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	if p.ProductID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}
	if p.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if p.Price < 0 {
		return nil, apperrors.InvalidInput("price cannot be negative")
	}
	if p.Stock < 0 {
		return nil, apperrors.InvalidInput("stock cannot be negative")
	}

	if err := s.products.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("upsert product: %w", err)
	}
	s.invalidate(ctx, p.ProductID)

	s.logger.InfoContext(ctx, "product upserted",
		slog.String("product_id", p.ProductID),
		slog.String("name", p.Name),
	)

	return p, nil
}

// GetProduct retrieves a product, trying the cache first. Cache failures are
// logged and fall through to the database.
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, productID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "product cache read failed",
				slog.String("product_id", productID),
				slog.String("error", err.Error()),
			)
		}
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product %s: %w", productID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, p); err != nil {
			s.logger.WarnContext(ctx, "product cache write failed",
				slog.String("product_id", productID),
				slog.String("error", err.Error()),
			)
		}
	}

	return p, nil
}

// ListProducts returns catalog products matching the filter with the total count.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// AdjustStock applies an administrative stock adjustment (positive restock,
// negative write-off) and publishes the resulting stock events.
func (s *CatalogService) AdjustStock(ctx context.Context, productID string, delta int, reason string) (*domain.Product, error) {
	if delta == 0 {
		return nil, apperrors.InvalidInput("delta cannot be zero")
	}

	p, err := s.products.AdjustStock(ctx, productID, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust stock for %s: %w", productID, err)
	}
	s.invalidate(ctx, productID)

	if err := s.producer.PublishStockAdjusted(ctx, productID, delta, p.Stock, reason); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.stock_adjusted event",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
	if p.Stock <= s.lowStockThreshold {
		if err := s.producer.PublishLowStock(ctx, productID, p.Name, p.Stock, s.lowStockThreshold); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish product.low_stock event",
				slog.String("product_id", productID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "stock adjusted",
		slog.String("product_id", productID),
		slog.Int("delta", delta),
		slog.Int("stock", p.Stock),
		slog.String("reason", reason),
	)

	return p, nil
}

func (s *CatalogService) invalidate(ctx context.Context, productID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, productID); err != nil {
		s.logger.WarnContext(ctx, "product cache invalidation failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}
