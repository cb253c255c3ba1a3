package strategy

// Momentum is the directional bias derived from a price history window.
type Momentum int

const (
	MomentumFlat Momentum = iota
	MomentumUp
	MomentumDown
)

// PriceHistory is a fixed-capacity sliding window of reference prices,
// insertion-ordered, oldest evicted first.
type PriceHistory struct {
	capacity int
	prices   []int
}

// NewPriceHistory returns an empty window with the given capacity.
func NewPriceHistory(capacity int) *PriceHistory {
	return &PriceHistory{capacity: capacity}
}

// Push appends a price, evicting the oldest entry when the window is full.
func (h *PriceHistory) Push(price int) {
	if h.capacity > 0 && len(h.prices) >= h.capacity {
		h.prices = append(h.prices[1:], price)
		return
	}
	h.prices = append(h.prices, price)
}

// Prices returns a copy of the window, oldest first.
func (h *PriceHistory) Prices() []int {
	out := make([]int, len(h.prices))
	copy(out, h.prices)
	return out
}

// Len returns the number of prices currently held.
func (h *PriceHistory) Len() int { return len(h.prices) }

// Capacity returns the window's fixed capacity.
func (h *PriceHistory) Capacity() int { return h.capacity }

// Momentum counts positive vs non-positive successive differences across the
// window. Strictly more positive diffs is bullish, strictly more non-positive
// is bearish, a tie is flat.
func (h *PriceHistory) Momentum() Momentum {
	var up, down int
	for i := 1; i < len(h.prices); i++ {
		if h.prices[i] > h.prices[i-1] {
			up++
		} else {
			down++
		}
	}
	switch {
	case up > down:
		return MomentumUp
	case down > up:
		return MomentumDown
	default:
		return MomentumFlat
	}
}
