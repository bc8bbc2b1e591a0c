package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HyungJun-An/LookFit/internal/domain"
	"github.com/HyungJun-An/LookFit/internal/repository"
	apperrors "github.com/HyungJun-An/LookFit/pkg/errors"
)

// CartService implements cart management. Stock checks here are advisory,
// against the catalog as it looks right now; the checkout transaction is the
// only place stock is actually claimed.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, logger *slog.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// GetCart returns the member's cart lines.
func (s *CartService) GetCart(ctx context.Context, memberID string) (*domain.Cart, error) {
	if memberID == "" {
		return nil, apperrors.InvalidInput("member_id is required")
	}
	cart, err := s.carts.GetCart(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

// AddToCart puts quantity units of a product into the member's cart,
// snapshotting the product's current name, price and image onto the line.
// Adding a product already in the cart increments the existing line.
func (s *CartService) AddToCart(ctx context.Context, memberID, productID string, quantity int) (*domain.Cart, error) {
	if memberID == "" {
		return nil, apperrors.InvalidInput("member_id is required")
	}
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be positive")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("look up product %s: %w", productID, err)
	}
	if !product.HasStock(quantity) {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"insufficient stock for %s: requested %d, available %d",
			product.Name, quantity, product.Stock,
		))
	}

	item := &domain.CartItem{
		MemberID:     memberID,
		ProductID:    product.ProductID,
		Quantity:     quantity,
		ProductName:  product.Name,
		ProductPrice: product.Price,
		ImageURL:     product.ImageURL,
	}
	if err := s.carts.UpsertItem(ctx, item); err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	s.logger.InfoContext(ctx, "cart item added",
		slog.String("member_id", memberID),
		slog.String("product_id", productID),
		slog.Int("quantity", quantity),
	)

	return s.carts.GetCart(ctx, memberID)
}

// UpdateItem overwrites the quantity of an existing cart line.
func (s *CartService) UpdateItem(ctx context.Context, memberID, productID string, quantity int) (*domain.Cart, error) {
	if memberID == "" {
		return nil, apperrors.InvalidInput("member_id is required")
	}
	if quantity <= 0 {
		return nil, apperrors.InvalidInput("quantity must be positive")
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("look up product %s: %w", productID, err)
	}
	if !product.HasStock(quantity) {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"insufficient stock for %s: requested %d, available %d",
			product.Name, quantity, product.Stock,
		))
	}

	if err := s.carts.UpdateQuantity(ctx, memberID, productID, quantity); err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}

	return s.carts.GetCart(ctx, memberID)
}

// RemoveItem deletes one line from the member's cart.
func (s *CartService) RemoveItem(ctx context.Context, memberID, productID string) (*domain.Cart, error) {
	if memberID == "" {
		return nil, apperrors.InvalidInput("member_id is required")
	}
	if err := s.carts.RemoveItem(ctx, memberID, productID); err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}

	s.logger.InfoContext(ctx, "cart item removed",
		slog.String("member_id", memberID),
		slog.String("product_id", productID),
	)

	return s.carts.GetCart(ctx, memberID)
}
