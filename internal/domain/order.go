package domain

import "time"

// ShippingInfo is the recipient detail captured at checkout.
type ShippingInfo struct {
	RecipientName    string `json:"recipient_name"`
	RecipientAddress string `json:"recipient_address"`
	RecipientPhone   string `json:"recipient_phone"`
	DeliveryRequest  string `json:"delivery_request,omitempty"`
}

// Order is a placed order. Orders are immutable once written: line items keep
// their own copy of product name and price, so later catalog edits never
// change a historical order.
type Order struct {
	OrderNo    int64        `json:"order_no"`
	MemberID   string       `json:"member_id"`
	Shipping   ShippingInfo `json:"shipping"`
	Items      []OrderItem  `json:"items"`
	TotalPrice int64        `json:"total_price"`
	OrderedAt  time.Time    `json:"ordered_at"`
}

// OrderItem is a line item frozen at order time.
type OrderItem struct {
	ItemID       int64  `json:"item_id"`
	OrderNo      int64  `json:"order_no"`
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	ProductPrice int64  `json:"product_price"`
	Quantity     int    `json:"quantity"`
	Subtotal     int64  `json:"subtotal"`
}

// NewOrderItem freezes a cart line into an order line.
func NewOrderItem(ci CartItem) OrderItem {
	return OrderItem{
		ProductID:    ci.ProductID,
		ProductName:  ci.ProductName,
		ProductPrice: ci.ProductPrice,
		Quantity:     ci.Quantity,
		Subtotal:     ci.Subtotal(),
	}
}
