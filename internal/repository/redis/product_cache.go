package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/HyungJun-An/LookFit/internal/domain"
	apperrors "github.com/HyungJun-An/LookFit/pkg/errors"
)

const keyPrefix = "product:"

// ProductCache implements repository.ProductCache using Redis. Entries are
// best-effort copies of catalog rows; checkout always reads the database, so
// a stale stock value here can never oversell.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProductCache creates a new Redis-backed product cache.
func NewProductCache(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a cached product by ID.
func (c *ProductCache) Get(ctx context.Context, productID string) (*domain.Product, error) {
	key := keyPrefix + productID

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("product", productID)
		}
		return nil, fmt.Errorf("redis get product: %w", err)
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal product: %w", err)
	}

	return &p, nil
}

// Set stores a product with the configured TTL.
func (c *ProductCache) Set(ctx context.Context, p *domain.Product) error {
	key := keyPrefix + p.ProductID

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal product: %w", err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set product: %w", err)
	}

	return nil
}

// Invalidate drops a product from the cache.
func (c *ProductCache) Invalidate(ctx context.Context, productID string) error {
	key := keyPrefix + productID

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del product: %w", err)
	}

	return nil
}
