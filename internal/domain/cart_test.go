package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartItem_Subtotal(t *testing.T) {
	item := CartItem{ProductPrice: 29000, Quantity: 3}
	assert.Equal(t, int64(87000), item.Subtotal())
}

func TestCart_TotalPrice_MultipleItems(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{ProductPrice: 29000, Quantity: 2},
			{ProductPrice: 15000, Quantity: 1},
		},
	}
	// 58000 + 15000 = 73000
	assert.Equal(t, int64(73000), c.TotalPrice())
}

func TestCart_TotalPrice_EmptyCart(t *testing.T) {
	c := &Cart{Items: []CartItem{}}
	assert.Equal(t, int64(0), c.TotalPrice())
}

func TestCart_TotalPrice_NilItems(t *testing.T) {
	c := &Cart{}
	assert.Equal(t, int64(0), c.TotalPrice())
}

func TestCart_ItemCount(t *testing.T) {
	c := &Cart{
		Items: []CartItem{
			{Quantity: 2},
			{Quantity: 5},
		},
	}
	assert.Equal(t, 7, c.ItemCount())
}

func TestCart_IsEmpty(t *testing.T) {
	assert.True(t, (&Cart{}).IsEmpty())
	assert.False(t, (&Cart{Items: []CartItem{{Quantity: 1}}}).IsEmpty())
}

func TestNewOrderItem_SnapshotsCartLine(t *testing.T) {
	ci := CartItem{
		MemberID:     "hyun01",
		ProductID:    "P001",
		ProductName:  "Oversized Hoodie",
		ProductPrice: 49000,
		Quantity:     2,
	}
	oi := NewOrderItem(ci)

	assert.Equal(t, "P001", oi.ProductID)
	assert.Equal(t, "Oversized Hoodie", oi.ProductName)
	assert.Equal(t, int64(49000), oi.ProductPrice)
	assert.Equal(t, 2, oi.Quantity)
	assert.Equal(t, int64(98000), oi.Subtotal)
}

func TestProduct_HasStock(t *testing.T) {
	p := Product{Stock: 5}
	assert.True(t, p.HasStock(5))
	assert.True(t, p.HasStock(1))
	assert.False(t, p.HasStock(6))
}
