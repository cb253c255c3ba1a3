package strategy

import (
	"context"
	"log/slog"

	"github.com/alanyoungcy/tickbot/internal/domain"
)

// StaticBandConfig holds the fixed price band and position limit for the
// static-band market maker.
type StaticBandConfig struct {
	BuyPrice      int
	SellPrice     int
	PositionLimit int
}

// StaticBand trades only when the book crosses its fixed thresholds: it lifts
// asks at or below BuyPrice and hits bids at or above SellPrice. The two
// checks are independent and may both fire in one tick, making it a wide
// fixed-spread quote that only trades when it can cross favorably. It carries
// no state between ticks.
type StaticBand struct {
	cfg    StaticBandConfig
	logger *slog.Logger
}

// NewStaticBand creates a StaticBand strategy.
func NewStaticBand(cfg StaticBandConfig, logger *slog.Logger) *StaticBand {
	return &StaticBand{
		cfg:    cfg,
		logger: logger.With(slog.String("strategy", "static_band")),
	}
}

// Name returns the strategy identifier.
func (s *StaticBand) Name() string { return "static_band" }

// NewState returns nil: StaticBand keeps nothing between ticks.
func (s *StaticBand) NewState() *State { return nil }

// Decide emits up to one buy and one sell per tick. Both sides clamp against
// the tick-start position independently; an empty book side is skipped
// silently.
func (s *StaticBand) Decide(_ context.Context, in Input) ([]domain.Order, error) {
	var orders []domain.Order

	if ask, size, ok := in.Depth.BestAsk(); ok && ask <= s.cfg.BuyPrice {
		if amt := MaxBuy(in.Position, s.cfg.PositionLimit, size); amt > 0 {
			in.Log.Printf("buying %d %s at %d", amt, in.Symbol, ask)
			orders = append(orders, domain.Order{Symbol: in.Symbol, Price: ask, Quantity: amt})
		}
	}

	if bid, size, ok := in.Depth.BestBid(); ok && bid >= s.cfg.SellPrice {
		if amt := MaxSell(in.Position, s.cfg.PositionLimit, size); amt > 0 {
			in.Log.Printf("selling %d %s at %d", amt, in.Symbol, bid)
			orders = append(orders, domain.Order{Symbol: in.Symbol, Price: bid, Quantity: -amt})
		}
	}

	return orders, nil
}
