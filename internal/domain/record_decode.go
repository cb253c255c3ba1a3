package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ParseRecord reverses TickRecord.MarshalJSON. Replay runs are fed from
// stored records, so the compact array form has to round-trip back into the
// structured one.
func ParseRecord(data []byte) (TickRecord, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(data, &outer); err != nil {
		return TickRecord{}, fmt.Errorf("record: parse: %w", err)
	}
	if len(outer) != 5 {
		return TickRecord{}, fmt.Errorf("record: expected 5 elements, got %d", len(outer))
	}

	var rec TickRecord

	in, err := parseInput(outer[0])
	if err != nil {
		return TickRecord{}, err
	}
	rec.Input = in

	orders, err := parseOrders(outer[1])
	if err != nil {
		return TickRecord{}, err
	}
	rec.Orders = orders

	if err := json.Unmarshal(outer[2], &rec.Conversion); err != nil {
		return TickRecord{}, fmt.Errorf("record: parse conversions: %w", err)
	}
	if err := json.Unmarshal(outer[3], &rec.TraderData); err != nil {
		return TickRecord{}, fmt.Errorf("record: parse trader data: %w", err)
	}
	if err := json.Unmarshal(outer[4], &rec.Logs); err != nil {
		return TickRecord{}, fmt.Errorf("record: parse logs: %w", err)
	}

	return rec, nil
}

func parseInput(data json.RawMessage) (TickInput, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return TickInput{}, fmt.Errorf("record: parse input: %w", err)
	}
	if len(parts) != 8 {
		return TickInput{}, fmt.Errorf("record: input expected 8 elements, got %d", len(parts))
	}

	var in TickInput
	if err := json.Unmarshal(parts[0], &in.Timestamp); err != nil {
		return TickInput{}, fmt.Errorf("record: parse timestamp: %w", err)
	}
	if err := json.Unmarshal(parts[1], &in.TraderData); err != nil {
		return TickInput{}, fmt.Errorf("record: parse state blob: %w", err)
	}

	var listings [][3]any
	if err := json.Unmarshal(parts[2], &listings); err != nil {
		return TickInput{}, fmt.Errorf("record: parse listings: %w", err)
	}
	in.Listings = make(map[string]Listing, len(listings))
	for _, l := range listings {
		sym, _ := l[0].(string)
		product, _ := l[1].(string)
		denom, _ := l[2].(string)
		in.Listings[sym] = Listing{Symbol: sym, Product: product, Denomination: denom}
	}

	var depths map[string][2]map[string]int
	if err := json.Unmarshal(parts[3], &depths); err != nil {
		return TickInput{}, fmt.Errorf("record: parse depths: %w", err)
	}
	in.OrderDepths = make(map[string]OrderDepth, len(depths))
	for sym, sides := range depths {
		buy, err := intKeys(sides[0])
		if err != nil {
			return TickInput{}, fmt.Errorf("record: depth %s buy side: %w", sym, err)
		}
		sell, err := intKeys(sides[1])
		if err != nil {
			return TickInput{}, fmt.Errorf("record: depth %s sell side: %w", sym, err)
		}
		in.OrderDepths[sym] = OrderDepth{BuyOrders: buy, SellOrders: sell}
	}

	own, err := parseTrades(parts[4])
	if err != nil {
		return TickInput{}, fmt.Errorf("record: own trades: %w", err)
	}
	in.OwnTrades = own

	market, err := parseTrades(parts[5])
	if err != nil {
		return TickInput{}, fmt.Errorf("record: market trades: %w", err)
	}
	in.MarketTrades = market

	if err := json.Unmarshal(parts[6], &in.Positions); err != nil {
		return TickInput{}, fmt.Errorf("record: parse positions: %w", err)
	}
	if in.Positions == nil {
		in.Positions = map[string]int{}
	}

	var obs []json.RawMessage
	if err := json.Unmarshal(parts[7], &obs); err != nil {
		return TickInput{}, fmt.Errorf("record: parse observations: %w", err)
	}
	if len(obs) > 0 {
		if err := json.Unmarshal(obs[0], &in.Observations); err != nil {
			return TickInput{}, fmt.Errorf("record: parse observations: %w", err)
		}
	}

	return in, nil
}

func parseTrades(data json.RawMessage) (map[string][]Trade, error) {
	var rows [][6]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	out := make(map[string][]Trade)
	for _, r := range rows {
		sym, _ := r[0].(string)
		t := Trade{
			Symbol:    sym,
			Price:     asInt(r[1]),
			Quantity:  asInt(r[2]),
			Timestamp: int64(asInt(r[5])),
		}
		t.Buyer, _ = r[3].(string)
		t.Seller, _ = r[4].(string)
		out[sym] = append(out[sym], t)
	}
	return out, nil
}

func parseOrders(data json.RawMessage) (map[string][]Order, error) {
	var rows [][3]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("record: parse orders: %w", err)
	}
	out := make(map[string][]Order)
	for _, r := range rows {
		sym, _ := r[0].(string)
		out[sym] = append(out[sym], Order{
			Symbol:   sym,
			Price:    asInt(r[1]),
			Quantity: asInt(r[2]),
		})
	}
	return out, nil
}

func intKeys(m map[string]int) (map[int]int, error) {
	out := make(map[int]int, len(m))
	for k, v := range m {
		price, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("price key %q: %w", k, err)
		}
		out[price] = v
	}
	return out, nil
}

func asInt(v any) int {
	f, _ := v.(float64)
	return int(f)
}
