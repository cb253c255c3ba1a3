package domain

// TickInput is everything the host hands the engine for one tick: the fresh
// market snapshot, the authoritative positions, last tick's fills, and the
// opaque state string the engine emitted on the previous tick.
type TickInput struct {
	Timestamp    int64
	TraderData   string
	Listings     map[string]Listing
	OrderDepths  map[string]OrderDepth
	OwnTrades    map[string][]Trade
	MarketTrades map[string][]Trade
	Positions    map[string]int
	Observations map[string]float64
}

// Position returns the host-reported position for a symbol, zero when absent.
func (t TickInput) Position(symbol string) int {
	return t.Positions[symbol]
}

// TickResult is what the engine hands back to the host after one tick.
// Conversions is always zero in this design; conversions are a host mechanism
// neither strategy uses.
type TickResult struct {
	Orders      map[string][]Order
	Conversions int
	TraderData  string
}
