// Package engine orchestrates one tick: it decodes the prior state blob,
// dispatches each instrument in the snapshot to its registered strategy,
// collects orders, re-encodes the blob, and builds the observability record.
package engine

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/tickbot/internal/domain"
	"github.com/alanyoungcy/tickbot/internal/state"
	"github.com/alanyoungcy/tickbot/internal/strategy"
)

// Engine processes ticks against a fixed instrument-to-strategy registry.
// A tick is processed start to finish with no suspension points; instrument
// decisions share nothing, so the parallel path needs no synchronization
// beyond collecting results.
type Engine struct {
	registry *strategy.Registry
	logger   *slog.Logger
	parallel bool
	ticks    atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithParallel makes the engine decide instruments concurrently. Output is
// identical to the sequential path; only wall time differs.
func WithParallel() Option {
	return func(e *Engine) { e.parallel = true }
}

// New creates an Engine over the given registry.
func New(registry *strategy.Registry, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		logger:   logger.With(slog.String("component", "engine")),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ticks returns the number of ticks processed since construction.
func (e *Engine) Ticks() int64 { return e.ticks.Load() }

// symbolOutcome is one instrument's contribution to the tick.
type symbolOutcome struct {
	orders []domain.Order
	snap   *state.Snapshot
	logs   string
}

// Tick runs one full decision cycle. A malformed prior blob fails the whole
// tick; an empty blob is a cold start. The returned record carries the five
// fields the observability sink consumes.
func (e *Engine) Tick(ctx context.Context, in domain.TickInput) (domain.TickResult, domain.TickRecord, error) {
	prior, err := state.Decode(in.TraderData)
	if err != nil {
		return domain.TickResult{}, domain.TickRecord{}, err
	}

	symbols := make([]string, 0, len(in.OrderDepths))
	for sym := range in.OrderDepths {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	outcomes := make(map[string]*symbolOutcome, len(symbols))
	if e.parallel {
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		for _, sym := range symbols {
			sym := sym
			g.Go(func() error {
				out, err := e.decideSymbol(gctx, in, prior, sym)
				if err != nil {
					return err
				}
				mu.Lock()
				outcomes[sym] = out
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return domain.TickResult{}, domain.TickRecord{}, err
		}
	} else {
		for _, sym := range symbols {
			out, err := e.decideSymbol(ctx, in, prior, sym)
			if err != nil {
				return domain.TickResult{}, domain.TickRecord{}, err
			}
			outcomes[sym] = out
		}
	}

	// Assemble in sorted symbol order so orders, state, and logs are
	// deterministic regardless of the decide path.
	orders := make(map[string][]domain.Order, len(symbols))
	next := make(map[string]state.Snapshot)
	var logs strings.Builder
	for _, sym := range symbols {
		out := outcomes[sym]
		if out == nil {
			continue
		}
		if len(out.orders) > 0 {
			orders[sym] = out.orders
		}
		if out.snap != nil {
			next[sym] = *out.snap
		}
		logs.WriteString(out.logs)
	}

	blob, err := state.Encode(next)
	if err != nil {
		return domain.TickResult{}, domain.TickRecord{}, err
	}

	result := domain.TickResult{
		Orders:      orders,
		Conversions: 0,
		TraderData:  blob,
	}
	record := domain.TickRecord{
		Input:      in,
		Orders:     orders,
		Conversion: result.Conversions,
		TraderData: blob,
		Logs:       logs.String(),
	}

	e.ticks.Add(1)
	return result, record, nil
}

// decideSymbol runs one instrument through its strategy with its own log
// buffer, restoring prior state first. Unknown instruments are skipped with a
// debug line, not an error; the host may list instruments this engine does
// not trade.
func (e *Engine) decideSymbol(ctx context.Context, in domain.TickInput, prior map[string]state.Snapshot, sym string) (*symbolOutcome, error) {
	strat, ok := e.registry.Lookup(sym)
	if !ok {
		e.logger.Debug("no strategy for symbol, skipping", slog.String("symbol", sym))
		return nil, nil
	}

	st := strat.NewState()
	if st != nil {
		if snap, ok := prior[sym]; ok {
			state.Apply(snap, st)
		}
	}

	var log domain.TickLog
	orders, err := strat.Decide(ctx, strategy.Input{
		Symbol:   sym,
		Depth:    in.OrderDepths[sym],
		Position: in.Position(sym),
		State:    st,
		Log:      &log,
	})
	if err != nil {
		return nil, err
	}

	out := &symbolOutcome{orders: orders, logs: log.String()}
	if st != nil {
		snap := state.Capture(st)
		out.snap = &snap
	}
	return out, nil
}
