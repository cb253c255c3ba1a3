// Package strategy implements the per-instrument trading rules: position
// limit clamping, lot-tracked exit matching, momentum entries, and the static
// price-band market maker.
package strategy

import (
	"context"

	"github.com/alanyoungcy/tickbot/internal/domain"
)

// State is the mutable per-instrument strategy state that round-trips through
// the host's opaque blob: open long and short lots plus the recent price
// window. It is decoded at tick start, mutated in place during the tick, and
// re-encoded at tick end; nothing else survives between ticks.
type State struct {
	Long    *Ledger
	Short   *Ledger
	History *PriceHistory
}

// NewState returns an empty state whose price window holds historyCap entries.
func NewState(historyCap int) *State {
	return &State{
		Long:    NewLedger(),
		Short:   NewLedger(),
		History: NewPriceHistory(historyCap),
	}
}

// Input is everything a strategy sees when deciding one instrument's tick.
type Input struct {
	Symbol string
	Depth  domain.OrderDepth

	// Position is the host-reported position at tick start. Strategies that
	// emit multiple orders adjust their working copy after each one so later
	// clamps see orders already decided this tick.
	Position int

	// State is nil for stateless strategies.
	State *State

	// Log collects free-text decision lines for the tick record.
	Log *domain.TickLog
}

// Strategy is the per-instrument decision contract. Decide reads the snapshot
// and position, may mutate in.State, and returns the orders to emit this tick.
type Strategy interface {
	Name() string

	// NewState returns a fresh cold-start state for this strategy, or nil if
	// the strategy carries no state between ticks.
	NewState() *State

	Decide(ctx context.Context, in Input) ([]domain.Order, error)
}
