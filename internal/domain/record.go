package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// TickRecord is the structured record handed to the observability sink once
// per tick. Its JSON form is the host visualizer's compact contract: a
// five-element array [state, orders, conversions, traderData, logs] where
// state and orders are themselves array-compressed.
type TickRecord struct {
	Input      TickInput
	Orders     map[string][]Order
	Conversion int
	TraderData string
	Logs       string
}

// MarshalJSON emits the compact array form consumed by the visualizer.
func (r TickRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{
		compressInput(r.Input),
		compressOrders(r.Orders),
		r.Conversion,
		r.TraderData,
		r.Logs,
	})
}

func compressInput(in TickInput) []any {
	return []any{
		in.Timestamp,
		in.TraderData,
		compressListings(in.Listings),
		compressDepths(in.OrderDepths),
		compressTrades(in.OwnTrades),
		compressTrades(in.MarketTrades),
		in.Positions,
		[]any{in.Observations, map[string]any{}},
	}
}

func compressListings(listings map[string]Listing) [][]any {
	out := make([][]any, 0, len(listings))
	for _, sym := range sortedKeys(listings) {
		l := listings[sym]
		out = append(out, []any{l.Symbol, l.Product, l.Denomination})
	}
	return out
}

func compressDepths(depths map[string]OrderDepth) map[string][]any {
	out := make(map[string][]any, len(depths))
	for sym, d := range depths {
		out[sym] = []any{d.BuyOrders, d.SellOrders}
	}
	return out
}

func compressTrades(trades map[string][]Trade) [][]any {
	out := make([][]any, 0)
	for _, sym := range sortedKeys(trades) {
		for _, t := range trades[sym] {
			out = append(out, []any{t.Symbol, t.Price, t.Quantity, t.Buyer, t.Seller, t.Timestamp})
		}
	}
	return out
}

func compressOrders(orders map[string][]Order) [][]any {
	out := make([][]any, 0)
	for _, sym := range sortedKeys(orders) {
		for _, o := range orders[sym] {
			out = append(out, []any{o.Symbol, o.Price, o.Quantity})
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StoredTick is one archived tick record together with the metadata the
// stores key on. Record holds the record's compact JSON form verbatim.
type StoredTick struct {
	ID        string
	RunID     string
	TickNo    int64
	Timestamp int64
	Symbols   int
	Record    []byte
	CreatedAt time.Time
}
