package app

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/tickbot/internal/domain"
	"github.com/alanyoungcy/tickbot/internal/engine"
	"github.com/alanyoungcy/tickbot/internal/feed"
	"github.com/alanyoungcy/tickbot/internal/pipeline"
	"github.com/alanyoungcy/tickbot/internal/server"
	"github.com/alanyoungcy/tickbot/internal/server/handler"
	"github.com/alanyoungcy/tickbot/internal/strategy"
)

const (
	// archiveInterval is how often live mode sweeps old records into blob
	// storage.
	archiveInterval = 6 * time.Hour

	// archiveAge is the minimum age of a record before it is archived.
	archiveAge = 7 * 24 * time.Hour
)

// LiveMode connects to the host feed and runs the engine on every tick,
// fanning each record out to stdout, the tick store, and the record cache.
func (a *App) LiveMode(ctx context.Context, deps *Dependencies) error {
	runID := uuid.NewString()
	a.logger.InfoContext(ctx, "starting live mode",
		slog.String("run_id", runID),
		slog.String("host_url", a.cfg.Feed.HostURL),
	)

	reg, err := a.newRegistry()
	if err != nil {
		return fmt.Errorf("live mode: %w", err)
	}
	eng := a.newEngine(reg)

	sink := pipeline.NewRecordSink(runID, deps.TickStore, deps.RecordCache, os.Stdout, a.logger)

	g, ctx := errgroup.WithContext(ctx)

	hostFeed := feed.NewHostFeed(
		a.cfg.Feed.HostURL,
		time.Duration(a.cfg.Feed.ReconnectSeconds)*time.Second,
		func(ctx context.Context, in domain.TickInput) (domain.TickResult, error) {
			res, rec, err := eng.Tick(ctx, in)
			if err != nil {
				return domain.TickResult{}, err
			}
			if err := sink.Record(ctx, rec); err != nil {
				a.logger.WarnContext(ctx, "record sink failed",
					slog.Int64("timestamp", in.Timestamp),
					slog.String("error", err.Error()),
				)
			}
			return res, nil
		},
		a.logger,
	)
	g.Go(func() error {
		defer hostFeed.Close()
		return hostFeed.Run(ctx)
	})

	g.Go(func() error {
		return sink.Run(ctx)
	})

	if deps.Archiver != nil {
		g.Go(func() error {
			return a.runArchiveLoop(ctx, deps.Archiver)
		})
	}

	if a.cfg.Server.Enabled {
		a.startStatusServer(ctx, g, deps, &runStatus{
			runID: runID,
			mode:  a.cfg.Mode,
			eng:   eng,
			reg:   reg,
		})
	}

	return g.Wait()
}

// ReplayMode streams a stored run back through the engine and verifies that
// the regenerated records match what was recorded. The replayed records are
// written to stdout as NDJSON.
func (a *App) ReplayMode(ctx context.Context, deps *Dependencies) error {
	runID := a.cfg.Replay.RunID
	a.logger.InfoContext(ctx, "starting replay mode", slog.String("run_id", runID))

	reg, err := a.newRegistry()
	if err != nil {
		return fmt.Errorf("replay mode: %w", err)
	}
	eng := a.newEngine(reg)

	ticks, err := deps.TickStore.ListByRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("replay mode: load run %s: %w", runID, err)
	}
	if len(ticks) == 0 {
		return fmt.Errorf("replay mode: run %s: %w", runID, domain.ErrNotFound)
	}

	sink := pipeline.NewRecordSink(uuid.NewString(), nil, nil, os.Stdout, a.logger)

	var mismatches int
	for _, stored := range ticks {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		rec, err := domain.ParseRecord(stored.Record)
		if err != nil {
			return fmt.Errorf("replay mode: tick %d: %w", stored.TickNo, err)
		}

		_, replayed, err := eng.Tick(ctx, rec.Input)
		if err != nil {
			return fmt.Errorf("replay mode: tick %d: %w", stored.TickNo, err)
		}

		regenerated, err := replayed.MarshalJSON()
		if err != nil {
			return fmt.Errorf("replay mode: tick %d: %w", stored.TickNo, err)
		}
		if !bytes.Equal(regenerated, bytes.TrimRight(stored.Record, "\n")) {
			mismatches++
			a.logger.WarnContext(ctx, "replayed record differs from stored",
				slog.Int64("tick_no", stored.TickNo),
				slog.Int64("timestamp", stored.Timestamp),
			)
		}

		if err := sink.Record(ctx, replayed); err != nil {
			a.logger.WarnContext(ctx, "record sink failed",
				slog.Int64("tick_no", stored.TickNo),
				slog.String("error", err.Error()),
			)
		}
	}

	a.logger.InfoContext(ctx, "replay finished",
		slog.String("run_id", runID),
		slog.Int("ticks", len(ticks)),
		slog.Int("mismatches", mismatches),
	)
	return nil
}

// ServeMode runs only the status API against the record cache. No engine runs
// and no feed is connected.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	reg, err := a.newRegistry()
	if err != nil {
		return fmt.Errorf("serve mode: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	a.startStatusServer(ctx, g, deps, &runStatus{
		mode: a.cfg.Mode,
		reg:  reg,
	})
	return g.Wait()
}

// newRegistry builds the instrument registry from configuration.
func (a *App) newRegistry() (*strategy.Registry, error) {
	reg := strategy.NewRegistry()
	for symbol, instr := range a.cfg.Engine.Instruments {
		switch instr.Strategy {
		case "static_band":
			reg.Register(symbol, strategy.NewStaticBand(strategy.StaticBandConfig{
				BuyPrice:      instr.BuyPrice,
				SellPrice:     instr.SellPrice,
				PositionLimit: instr.PositionLimit,
			}, a.logger))
		case "adaptive":
			reg.Register(symbol, strategy.NewAdaptive(strategy.AdaptiveConfig{
				MinProfit:     instr.MinProfit,
				MaxLoss:       instr.MaxLoss,
				PositionLimit: instr.PositionLimit,
				HistorySize:   instr.HistorySize,
			}, a.logger))
		default:
			return nil, fmt.Errorf("instrument %s: strategy %q: %w",
				symbol, instr.Strategy, domain.ErrUnknownStrategy)
		}
	}
	return reg, nil
}

func (a *App) newEngine(reg *strategy.Registry) *engine.Engine {
	var opts []engine.Option
	if a.cfg.Engine.Parallel {
		opts = append(opts, engine.WithParallel())
	}
	return engine.New(reg, a.logger, opts...)
}

// runArchiveLoop periodically sweeps records older than archiveAge into blob
// storage. Deletion from the primary store is left to the operator once the
// archive is verified.
func (a *App) runArchiveLoop(ctx context.Context, archiver domain.Archiver) error {
	ticker := time.NewTicker(archiveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cutoff := time.Now().UTC().Add(-archiveAge)
			count, err := archiver.ArchiveTicks(ctx, cutoff)
			if err != nil {
				a.logger.ErrorContext(ctx, "archive sweep failed",
					slog.String("error", err.Error()),
				)
				continue
			}
			if count > 0 {
				a.logger.InfoContext(ctx, "archived tick records",
					slog.Int64("count", count),
					slog.Time("cutoff", cutoff),
				)
			}
		}
	}
}

// startStatusServer adds the status API server goroutine to the errgroup.
func (a *App) startStatusServer(ctx context.Context, g *errgroup.Group, deps *Dependencies, status *runStatus) {
	srv := server.New(server.Config{
		Port:   a.cfg.Server.Port,
		APIKey: a.cfg.Server.APIKey,
	}, status, deps.RecordCache, a.logger)

	g.Go(func() error {
		return srv.Start(ctx)
	})
}

// runStatus implements handler.StatusProvider over the live engine.
type runStatus struct {
	runID string
	mode  string
	eng   *engine.Engine
	reg   *strategy.Registry
}

func (s *runStatus) Status() handler.RunStatus {
	st := handler.RunStatus{
		RunID:   s.runID,
		Mode:    s.mode,
		Symbols: s.reg.Symbols(),
	}
	if s.eng != nil {
		st.Ticks = s.eng.Ticks()
	}
	return st
}
