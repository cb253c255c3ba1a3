package strategy

import "sort"

// Lot is an open position slice at a specific acquisition price. Quantity is
// always positive regardless of side; the ledger it lives in determines
// whether it is long or short inventory.
type Lot struct {
	Price    int `json:"p"`
	Quantity int `json:"q"`
}

// Ledger tracks open lots keyed by acquisition price for one side of one
// instrument. A lot is removed exactly when its quantity reaches zero, so a
// ledger never holds zero or negative quantities.
type Ledger struct {
	lots map[int]int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{lots: make(map[int]int)}
}

// Add records qty acquired at price, accumulating into any existing lot at
// that exact price. Non-positive quantities are ignored.
func (l *Ledger) Add(price, qty int) {
	if qty <= 0 {
		return
	}
	l.lots[price] += qty
}

// Reduce removes up to qty from the lot at price, deleting the lot when it
// reaches zero. It returns the quantity actually removed.
func (l *Ledger) Reduce(price, qty int) int {
	held, ok := l.lots[price]
	if !ok || qty <= 0 {
		return 0
	}
	if qty >= held {
		delete(l.lots, price)
		return held
	}
	l.lots[price] = held - qty
	return qty
}

// Len returns the number of distinct price levels held.
func (l *Ledger) Len() int { return len(l.lots) }

// Quantity returns the total quantity across all lots.
func (l *Ledger) Quantity() int {
	var total int
	for _, q := range l.lots {
		total += q
	}
	return total
}

// Ascending returns the lots sorted by ascending price. Exit matching scans
// long ledgers in this order so the tie-break is deterministic.
func (l *Ledger) Ascending() []Lot {
	out := l.collect()
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out
}

// Descending returns the lots sorted by descending price, the scan order for
// short-ledger exits.
func (l *Ledger) Descending() []Lot {
	out := l.collect()
	sort.Slice(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	return out
}

func (l *Ledger) collect() []Lot {
	out := make([]Lot, 0, len(l.lots))
	for p, q := range l.lots {
		out = append(out, Lot{Price: p, Quantity: q})
	}
	return out
}
