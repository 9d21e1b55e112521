package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseActionType(t *testing.T) {
	a, ok := ParseActionType(" update ")
	assert.True(t, ok)
	assert.Equal(t, ActionTypeUpdate, a)

	_, ok = ParseActionType("DELETE")
	assert.False(t, ok)
}

func TestParseOrderType(t *testing.T) {
	o, ok := ParseOrderType("sell")
	assert.True(t, ok)
	assert.Equal(t, OrderTypeSell, o)

	_, ok = ParseOrderType("")
	assert.False(t, ok)
}

func TestOrder_SignedQuantity(t *testing.T) {
	assert.Equal(t, int64(10), Order{Quantity: 10, OrderType: OrderTypeBuy}.SignedQuantity())
	assert.Equal(t, int64(-10), Order{Quantity: 10, OrderType: OrderTypeSell}.SignedQuantity())
}

func TestEnumsListed(t *testing.T) {
	assert.Equal(t, []ActionType{"INSERT", "UPDATE", "CANCEL"}, ActionTypes())
	assert.Equal(t, []OrderType{"BUY", "SELL"}, OrderTypes())
	assert.True(t, Position{Symbol: "GOOGL", Quantity: -25}.IsShort())
}
