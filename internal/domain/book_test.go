package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestBid(t *testing.T) {
	t.Run("picks the highest bid", func(t *testing.T) {
		d := OrderDepth{BuyOrders: map[int]int{9995: 10, 9996: 3, 9990: 1}}
		price, size, ok := d.BestBid()
		assert.True(t, ok)
		assert.Equal(t, 9996, price)
		assert.Equal(t, 3, size)
	})

	t.Run("empty side", func(t *testing.T) {
		_, _, ok := OrderDepth{}.BestBid()
		assert.False(t, ok)
	})
}

func TestBestAsk(t *testing.T) {
	t.Run("picks the lowest ask and normalizes size", func(t *testing.T) {
		d := OrderDepth{SellOrders: map[int]int{10005: -10, 10004: -3}}
		price, size, ok := d.BestAsk()
		assert.True(t, ok)
		assert.Equal(t, 10004, price)
		assert.Equal(t, 3, size)
	})

	t.Run("positive ask sizes pass through", func(t *testing.T) {
		d := OrderDepth{SellOrders: map[int]int{10004: 3}}
		_, size, ok := d.BestAsk()
		assert.True(t, ok)
		assert.Equal(t, 3, size)
	})

	t.Run("empty side", func(t *testing.T) {
		_, _, ok := OrderDepth{}.BestAsk()
		assert.False(t, ok)
	})
}

func TestMidPrice(t *testing.T) {
	tests := []struct {
		name     string
		bids     map[int]int
		asks     map[int]int
		expected int
		ok       bool
	}{
		{name: "even spread", bids: map[int]int{100: 1}, asks: map[int]int{104: -1}, expected: 102, ok: true},
		{name: "odd spread truncates", bids: map[int]int{100: 1}, asks: map[int]int{103: -1}, expected: 101, ok: true},
		{name: "missing bids", asks: map[int]int{103: -1}},
		{name: "missing asks", bids: map[int]int{100: 1}},
		{name: "empty book"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := OrderDepth{BuyOrders: tt.bids, SellOrders: tt.asks}
			mid, ok := d.MidPrice()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, mid)
		})
	}
}
