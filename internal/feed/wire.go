// Package feed connects the engine to the host's tick loop over a websocket:
// it decodes tick messages, runs the handler, and replies with the orders,
// conversion count, and new state blob.
package feed

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/alanyoungcy/tickbot/internal/domain"
)

// wireListing mirrors the host's listing JSON.
type wireListing struct {
	Symbol       string `json:"symbol"`
	Product      string `json:"product"`
	Denomination string `json:"denomination"`
}

// wireDepth mirrors the host's order depth JSON. Prices arrive as string
// keys; ask quantities are negative in the raw feed.
type wireDepth struct {
	BuyOrders  map[string]int `json:"buy_orders"`
	SellOrders map[string]int `json:"sell_orders"`
}

// wireTrade mirrors the host's trade JSON.
type wireTrade struct {
	Symbol    string `json:"symbol"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
	Buyer     string `json:"buyer"`
	Seller    string `json:"seller"`
	Timestamp int64  `json:"timestamp"`
}

// wireTick is one tick message from the host.
type wireTick struct {
	Timestamp    int64                  `json:"timestamp"`
	TraderData   string                 `json:"traderData"`
	Listings     map[string]wireListing `json:"listings"`
	OrderDepths  map[string]wireDepth   `json:"order_depths"`
	OwnTrades    map[string][]wireTrade `json:"own_trades"`
	MarketTrades map[string][]wireTrade `json:"market_trades"`
	Position     map[string]int         `json:"position"`
	Observations map[string]float64     `json:"observations"`
}

// DecodeTick parses a host tick message into a domain TickInput.
func DecodeTick(data []byte) (domain.TickInput, error) {
	var w wireTick
	if err := json.Unmarshal(data, &w); err != nil {
		return domain.TickInput{}, fmt.Errorf("feed: decode tick: %w", err)
	}

	in := domain.TickInput{
		Timestamp:    w.Timestamp,
		TraderData:   w.TraderData,
		Listings:     make(map[string]domain.Listing, len(w.Listings)),
		OrderDepths:  make(map[string]domain.OrderDepth, len(w.OrderDepths)),
		OwnTrades:    decodeTrades(w.OwnTrades),
		MarketTrades: decodeTrades(w.MarketTrades),
		Positions:    w.Position,
		Observations: w.Observations,
	}
	if in.Positions == nil {
		in.Positions = map[string]int{}
	}

	for sym, l := range w.Listings {
		in.Listings[sym] = domain.Listing{Symbol: l.Symbol, Product: l.Product, Denomination: l.Denomination}
	}
	for sym, d := range w.OrderDepths {
		depth, err := decodeDepth(d)
		if err != nil {
			return domain.TickInput{}, fmt.Errorf("feed: decode depth for %s: %w", sym, err)
		}
		in.OrderDepths[sym] = depth
	}
	return in, nil
}

func decodeDepth(w wireDepth) (domain.OrderDepth, error) {
	d := domain.OrderDepth{
		BuyOrders:  make(map[int]int, len(w.BuyOrders)),
		SellOrders: make(map[int]int, len(w.SellOrders)),
	}
	for k, q := range w.BuyOrders {
		p, err := strconv.Atoi(k)
		if err != nil {
			return domain.OrderDepth{}, fmt.Errorf("bad bid price %q: %w", k, err)
		}
		d.BuyOrders[p] = q
	}
	for k, q := range w.SellOrders {
		p, err := strconv.Atoi(k)
		if err != nil {
			return domain.OrderDepth{}, fmt.Errorf("bad ask price %q: %w", k, err)
		}
		d.SellOrders[p] = q
	}
	return d, nil
}

func decodeTrades(w map[string][]wireTrade) map[string][]domain.Trade {
	out := make(map[string][]domain.Trade, len(w))
	for sym, trades := range w {
		converted := make([]domain.Trade, 0, len(trades))
		for _, t := range trades {
			converted = append(converted, domain.Trade{
				Symbol:    t.Symbol,
				Price:     t.Price,
				Quantity:  t.Quantity,
				Buyer:     t.Buyer,
				Seller:    t.Seller,
				Timestamp: t.Timestamp,
			})
		}
		out[sym] = converted
	}
	return out
}

// EncodeResult serializes a TickResult into the host's reply format.
func EncodeResult(res domain.TickResult) ([]byte, error) {
	out := map[string]any{
		"orders":      encodeOrders(res.Orders),
		"conversions": res.Conversions,
		"traderData":  res.TraderData,
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("feed: encode result: %w", err)
	}
	return data, nil
}

func encodeOrders(orders map[string][]domain.Order) map[string][]map[string]any {
	out := make(map[string][]map[string]any, len(orders))
	for sym, list := range orders {
		encoded := make([]map[string]any, 0, len(list))
		for _, o := range list {
			encoded = append(encoded, map[string]any{
				"symbol":   o.Symbol,
				"price":    o.Price,
				"quantity": o.Quantity,
			})
		}
		out[sym] = encoded
	}
	return out
}
