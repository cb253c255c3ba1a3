package domain

// OrderDepth holds one instrument's resting orders for a single tick.
// BuyOrders maps bid price to resting buy quantity (positive). SellOrders
// maps ask price to resting sell quantity, which the host feed reports as
// negative numbers.
//
// Best quotes are recomputed from the maps on every call; they must never be
// cached across ticks because the host replaces the whole book each tick.
type OrderDepth struct {
	BuyOrders  map[int]int
	SellOrders map[int]int
}

// BestBid returns the highest bid price and its resting quantity.
// ok is false when the buy side is empty.
func (d OrderDepth) BestBid() (price, size int, ok bool) {
	for p, q := range d.BuyOrders {
		if !ok || p > price {
			price, size = p, q
		}
		ok = true
	}
	return price, size, ok
}

// BestAsk returns the lowest ask price and its available quantity, normalized
// to a positive "available sell size". ok is false when the sell side is empty.
func (d OrderDepth) BestAsk() (price, size int, ok bool) {
	for p, q := range d.SellOrders {
		if !ok || p < price {
			price, size = p, q
		}
		ok = true
	}
	if size < 0 {
		size = -size
	}
	return price, size, ok
}

// MidPrice returns the integer mid-price between the best bid and best ask.
// ok is false unless both sides of the book are populated.
func (d OrderDepth) MidPrice() (int, bool) {
	bid, _, bidOK := d.BestBid()
	ask, _, askOK := d.BestAsk()
	if !bidOK || !askOK {
		return 0, false
	}
	return (bid + ask) / 2, true
}
