package strategy

import (
	"context"
	"log/slog"

	"github.com/alanyoungcy/tickbot/internal/domain"
)

// AdaptiveConfig holds the exit thresholds, position limit, and price window
// capacity for the adaptive lot-tracked strategy.
type AdaptiveConfig struct {
	MinProfit     int
	MaxLoss       int
	PositionLimit int
	HistorySize   int
}

// Adaptive is the lot-tracked momentum trader. Each tick it first tries to
// close existing lots against the best opposing quote, realizing at least
// MinProfit or cutting a loss of at least MaxLoss, then opens a new position
// in the direction of recent price momentum. Exits are matched by price
// level, not acquisition time: long lots are scanned in ascending price
// order, short lots in descending order, and at most one lot per side is
// exited per tick so thin resting depth is never swept by a full unwind.
type Adaptive struct {
	cfg    AdaptiveConfig
	logger *slog.Logger
}

// NewAdaptive creates an Adaptive strategy.
func NewAdaptive(cfg AdaptiveConfig, logger *slog.Logger) *Adaptive {
	return &Adaptive{
		cfg:    cfg,
		logger: logger.With(slog.String("strategy", "adaptive")),
	}
}

// Name returns the strategy identifier.
func (a *Adaptive) Name() string { return "adaptive" }

// NewState returns an empty cold-start state sized to the configured window.
func (a *Adaptive) NewState() *State { return NewState(a.cfg.HistorySize) }

// Decide runs, in strict order: long exits, short exits, momentum entry,
// history update. The working position starts from the host-reported value
// and is adjusted after each emitted order so every later clamp reflects
// orders already decided this tick. A book missing either side is a silent
// no-op for the instrument.
func (a *Adaptive) Decide(_ context.Context, in Input) ([]domain.Order, error) {
	bidPrice, bidSize, bidOK := in.Depth.BestBid()
	askPrice, askSize, askOK := in.Depth.BestAsk()
	if !bidOK || !askOK {
		return nil, nil
	}

	st := in.State
	pos := in.Position
	var orders []domain.Order

	// Long exits: sell the first qualifying lot into the best bid.
	for _, lot := range st.Long.Ascending() {
		if bidPrice-lot.Price < a.cfg.MinProfit && lot.Price-bidPrice < a.cfg.MaxLoss {
			continue
		}
		amt := MaxSell(pos, a.cfg.PositionLimit, min(lot.Quantity, bidSize))
		if amt > 0 {
			st.Long.Reduce(lot.Price, amt)
			in.Log.Printf("closing long %d %s at %d (entry %d)", amt, in.Symbol, bidPrice, lot.Price)
			orders = append(orders, domain.Order{Symbol: in.Symbol, Price: bidPrice, Quantity: -amt})
			pos -= amt
		}
		break
	}

	// Short exits: buy back the first qualifying lot from the best ask.
	for _, lot := range st.Short.Descending() {
		if lot.Price-askPrice < a.cfg.MinProfit && askPrice-lot.Price < a.cfg.MaxLoss {
			continue
		}
		amt := MaxBuy(pos, a.cfg.PositionLimit, min(lot.Quantity, askSize))
		if amt > 0 {
			st.Short.Reduce(lot.Price, amt)
			in.Log.Printf("closing short %d %s at %d (entry %d)", amt, in.Symbol, askPrice, lot.Price)
			orders = append(orders, domain.Order{Symbol: in.Symbol, Price: askPrice, Quantity: amt})
			pos += amt
		}
		break
	}

	// Momentum entry. A tie in the diff counts yields no new position.
	switch st.History.Momentum() {
	case MomentumUp:
		if amt := MaxBuy(pos, a.cfg.PositionLimit, askSize); amt > 0 {
			in.Log.Printf("buying %d %s at %d", amt, in.Symbol, askPrice)
			orders = append(orders, domain.Order{Symbol: in.Symbol, Price: askPrice, Quantity: amt})
			st.Long.Add(askPrice, amt)
			pos += amt
		}
	case MomentumDown:
		if amt := MaxSell(pos, a.cfg.PositionLimit, bidSize); amt > 0 {
			in.Log.Printf("selling %d %s at %d", amt, in.Symbol, bidPrice)
			orders = append(orders, domain.Order{Symbol: in.Symbol, Price: bidPrice, Quantity: -amt})
			st.Short.Add(bidPrice, amt)
			pos -= amt
		}
	}

	st.History.Push((bidPrice + askPrice) / 2)

	return orders, nil
}
