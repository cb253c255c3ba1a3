package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceHistoryPush(t *testing.T) {
	t.Run("fills up to capacity", func(t *testing.T) {
		h := NewPriceHistory(3)
		h.Push(1)
		h.Push(2)
		assert.Equal(t, []int{1, 2}, h.Prices())
	})

	t.Run("evicts the oldest at capacity", func(t *testing.T) {
		h := NewPriceHistory(3)
		for _, p := range []int{1, 2, 3, 4} {
			h.Push(p)
		}
		assert.Equal(t, []int{2, 3, 4}, h.Prices())
		assert.Equal(t, 3, h.Len())
	})

	t.Run("prices returns a copy", func(t *testing.T) {
		h := NewPriceHistory(3)
		h.Push(1)
		got := h.Prices()
		got[0] = 99
		assert.Equal(t, []int{1}, h.Prices())
	})
}

func TestPriceHistoryMomentum(t *testing.T) {
	tests := []struct {
		name     string
		prices   []int
		expected Momentum
	}{
		{name: "empty window", prices: nil, expected: MomentumFlat},
		{name: "single price", prices: []int{100}, expected: MomentumFlat},
		{name: "rising", prices: []int{100, 101, 102, 103}, expected: MomentumUp},
		{name: "falling", prices: []int{103, 102, 101, 100}, expected: MomentumDown},
		{name: "tie is flat", prices: []int{100, 101, 100, 101, 100}, expected: MomentumFlat},
		{name: "flat diffs count as down", prices: []int{100, 100, 100}, expected: MomentumDown},
		{name: "majority up with one dip", prices: []int{100, 101, 100, 102, 103}, expected: MomentumUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPriceHistory(10)
			for _, p := range tt.prices {
				h.Push(p)
			}
			assert.Equal(t, tt.expected, h.Momentum())
		})
	}
}
