package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HyungJun-An/LookFit/internal/domain"
	pkgkafka "github.com/HyungJun-An/LookFit/pkg/kafka"
)

// Kafka topics for LookFit domain events.
const (
	TopicOrderPlaced       = "lookfit.order.placed"
	TopicProductStockMoved = "lookfit.product.stock_adjusted"
	TopicProductLowStock   = "lookfit.product.low_stock"
)

// Aggregate type constants.
const (
	AggregateTypeOrder   = "order"
	AggregateTypeProduct = "product"
)

// Source identifier for events originating from this backend.
const SourceLookFit = "lookfit-backend"

// OrderPlacedData is the payload for an order.placed event (full order snapshot).
type OrderPlacedData struct {
	OrderNo    int64               `json:"order_no"`
	MemberID   string              `json:"member_id"`
	Shipping   domain.ShippingInfo `json:"shipping"`
	Items      []OrderItemData     `json:"items"`
	TotalPrice int64               `json:"total_price"`
}

// OrderItemData is the event payload for one order line.
type OrderItemData struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductPrice int64  `json:"product_price"`
	Quantity     int    `json:"quantity"`
	Subtotal     int64  `json:"subtotal"`
}

// StockAdjustedData is the payload for a product.stock_adjusted event.
type StockAdjustedData struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
	Stock     int    `json:"stock"`
	Reason    string `json:"reason"`
}

// LowStockData is the payload for a product.low_stock event.
type LowStockData struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
	Threshold   int    `json:"threshold"`
}

// Producer publishes LookFit domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishOrderPlaced publishes an order.placed event with the full order snapshot.
func (p *Producer) PublishOrderPlaced(ctx context.Context, order *domain.Order) error {
	items := make([]OrderItemData, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemData{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductPrice: item.ProductPrice,
			Quantity:     item.Quantity,
			Subtotal:     item.Subtotal,
		}
	}

	data := OrderPlacedData{
		OrderNo:    order.OrderNo,
		MemberID:   order.MemberID,
		Shipping:   order.Shipping,
		Items:      items,
		TotalPrice: order.TotalPrice,
	}

	aggregateID := fmt.Sprintf("%d", order.OrderNo)
	event, err := pkgkafka.NewEvent(TopicOrderPlaced, aggregateID, AggregateTypeOrder, SourceLookFit, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.Int64("order_no", order.OrderNo),
		slog.String("member_id", order.MemberID),
	)

	return nil
}

// PublishStockAdjusted publishes a product.stock_adjusted event.
func (p *Producer) PublishStockAdjusted(ctx context.Context, productID string, delta, stock int, reason string) error {
	data := StockAdjustedData{
		ProductID: productID,
		Delta:     delta,
		Stock:     stock,
		Reason:    reason,
	}

	event, err := pkgkafka.NewEvent(TopicProductStockMoved, productID, AggregateTypeProduct, SourceLookFit, data)
	if err != nil {
		return fmt.Errorf("create product.stock_adjusted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductStockMoved, event); err != nil {
		return fmt.Errorf("publish product.stock_adjusted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.stock_adjusted event",
		slog.String("product_id", productID),
		slog.Int("delta", delta),
		slog.Int("stock", stock),
	)

	return nil
}

// PublishLowStock publishes a product.low_stock event when remaining stock
// drops to or below the configured threshold.
func (p *Producer) PublishLowStock(ctx context.Context, productID, productName string, stock, threshold int) error {
	data := LowStockData{
		ProductID:   productID,
		ProductName: productName,
		Stock:       stock,
		Threshold:   threshold,
	}

	event, err := pkgkafka.NewEvent(TopicProductLowStock, productID, AggregateTypeProduct, SourceLookFit, data)
	if err != nil {
		return fmt.Errorf("create product.low_stock event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicProductLowStock, event); err != nil {
		return fmt.Errorf("publish product.low_stock event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.low_stock event",
		slog.String("product_id", productID),
		slog.Int("stock", stock),
	)

	return nil
}
