package domain

// Order is a single order emitted by a strategy within one tick. Quantity is
// signed: positive buys, negative sells. Orders are never persisted; they are
// constructed, reported to the host, and discarded.
type Order struct {
	Symbol   string
	Price    int
	Quantity int
}

// IsBuy reports whether the order adds to the position.
func (o Order) IsBuy() bool { return o.Quantity > 0 }

// Trade is a fill reported by the host for the previous tick. The engine does
// not act on trades; they are carried through to the observability record.
type Trade struct {
	Symbol    string
	Price     int
	Quantity  int
	Buyer     string
	Seller    string
	Timestamp int64
}

// Listing describes a tradeable instrument as announced by the host.
type Listing struct {
	Symbol       string
	Product      string
	Denomination string
}
