package engine

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/tickbot/internal/domain"
	"github.com/alanyoungcy/tickbot/internal/state"
	"github.com/alanyoungcy/tickbot/internal/strategy"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegistry() *strategy.Registry {
	reg := strategy.NewRegistry()
	reg.Register("AMETHYSTS", strategy.NewStaticBand(strategy.StaticBandConfig{
		BuyPrice:      9998,
		SellPrice:     10002,
		PositionLimit: 20,
	}, testLogger()))
	reg.Register("STARFRUIT", strategy.NewAdaptive(strategy.AdaptiveConfig{
		MinProfit:     4,
		MaxLoss:       3,
		PositionLimit: 20,
		HistorySize:   10,
	}, testLogger()))
	return reg
}

func twoSymbolInput(traderData string) domain.TickInput {
	return domain.TickInput{
		Timestamp:  100,
		TraderData: traderData,
		OrderDepths: map[string]domain.OrderDepth{
			"AMETHYSTS": {
				BuyOrders:  map[int]int{10003: 4},
				SellOrders: map[int]int{9997: -6},
			},
			"STARFRUIT": {
				BuyOrders:  map[int]int{5000: 5},
				SellOrders: map[int]int{5004: -5},
			},
		},
		Positions: map[string]int{"AMETHYSTS": 0, "STARFRUIT": 0},
	}
}

func TestEngineTickColdStart(t *testing.T) {
	eng := New(testRegistry(), testLogger())

	res, rec, err := eng.Tick(context.Background(), twoSymbolInput(""))
	require.NoError(t, err)

	// The crossed amethyst book trades both sides; cold-start starfruit has
	// no momentum and stays flat.
	require.Contains(t, res.Orders, "AMETHYSTS")
	assert.NotContains(t, res.Orders, "STARFRUIT")
	assert.Equal(t, []domain.Order{
		{Symbol: "AMETHYSTS", Price: 9997, Quantity: 6},
		{Symbol: "AMETHYSTS", Price: 10003, Quantity: -4},
	}, res.Orders["AMETHYSTS"])
	assert.Zero(t, res.Conversions)

	// Only the stateful instrument appears in the blob.
	snaps, err := state.Decode(res.TraderData)
	require.NoError(t, err)
	require.Contains(t, snaps, "STARFRUIT")
	assert.NotContains(t, snaps, "AMETHYSTS")
	assert.Equal(t, []int{5002}, snaps["STARFRUIT"].History)

	assert.Equal(t, res.TraderData, rec.TraderData)
	assert.Equal(t, res.Orders, rec.Orders)
	assert.Equal(t, int64(1), eng.Ticks())
}

func TestEngineStateChainsAcrossTicks(t *testing.T) {
	eng := New(testRegistry(), testLogger())
	ctx := context.Background()

	blob := ""
	for i := 0; i < 3; i++ {
		res, _, err := eng.Tick(ctx, twoSymbolInput(blob))
		require.NoError(t, err)
		blob = res.TraderData
	}

	snaps, err := state.Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, []int{5002, 5002, 5002}, snaps["STARFRUIT"].History)
	assert.Equal(t, int64(3), eng.Ticks())
}

func TestEngineRejectsMalformedBlob(t *testing.T) {
	eng := New(testRegistry(), testLogger())

	in := twoSymbolInput("{not json")
	_, _, err := eng.Tick(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrStateDecode)
}

func TestEngineSkipsUnknownSymbols(t *testing.T) {
	eng := New(testRegistry(), testLogger())

	in := twoSymbolInput("")
	in.OrderDepths["KELP"] = domain.OrderDepth{
		BuyOrders:  map[int]int{100: 1},
		SellOrders: map[int]int{101: -1},
	}

	res, _, err := eng.Tick(context.Background(), in)
	require.NoError(t, err)
	assert.NotContains(t, res.Orders, "KELP")

	snaps, err := state.Decode(res.TraderData)
	require.NoError(t, err)
	assert.NotContains(t, snaps, "KELP")
}

func TestEngineParallelMatchesSequential(t *testing.T) {
	seq := New(testRegistry(), testLogger())
	par := New(testRegistry(), testLogger(), WithParallel())
	ctx := context.Background()

	seqBlob, parBlob := "", ""
	for i := 0; i < 5; i++ {
		seqIn := twoSymbolInput(seqBlob)
		parIn := twoSymbolInput(parBlob)

		seqRes, seqRec, err := seq.Tick(ctx, seqIn)
		require.NoError(t, err)
		parRes, parRec, err := par.Tick(ctx, parIn)
		require.NoError(t, err)

		assert.Equal(t, seqRes, parRes)

		seqJSON, err := json.Marshal(seqRec)
		require.NoError(t, err)
		parJSON, err := json.Marshal(parRec)
		require.NoError(t, err)
		assert.JSONEq(t, string(seqJSON), string(parJSON))

		seqBlob, parBlob = seqRes.TraderData, parRes.TraderData
	}
}

func TestEnginePositionNeverExceedsLimit(t *testing.T) {
	// Walk the position to the limit and verify the clamp holds when the
	// host reports the filled position back.
	eng := New(testRegistry(), testLogger())
	ctx := context.Background()

	pos := 0
	for i := 0; i < 10; i++ {
		in := domain.TickInput{
			Timestamp: int64(100 * i),
			OrderDepths: map[string]domain.OrderDepth{
				"AMETHYSTS": {
					BuyOrders:  map[int]int{9990: 1},
					SellOrders: map[int]int{9995: -8},
				},
			},
			Positions: map[string]int{"AMETHYSTS": pos},
		}

		res, _, err := eng.Tick(ctx, in)
		require.NoError(t, err)

		for _, o := range res.Orders["AMETHYSTS"] {
			pos += o.Quantity
		}
		assert.LessOrEqual(t, pos, 20)
		assert.GreaterOrEqual(t, pos, -20)
	}
	assert.Equal(t, 20, pos)
}

func TestTickRecordShape(t *testing.T) {
	eng := New(testRegistry(), testLogger())

	_, rec, err := eng.Tick(context.Background(), twoSymbolInput(""))
	require.NoError(t, err)

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var outer []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &outer))
	require.Len(t, outer, 5)

	var inner []json.RawMessage
	require.NoError(t, json.Unmarshal(outer[0], &inner))
	assert.Len(t, inner, 8)

	var logs string
	require.NoError(t, json.Unmarshal(outer[4], &logs))
	assert.Contains(t, logs, "AMETHYSTS")
}
