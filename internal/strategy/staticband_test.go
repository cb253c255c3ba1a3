package strategy

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyoungcy/tickbot/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func depth(bids, asks map[int]int) domain.OrderDepth {
	return domain.OrderDepth{BuyOrders: bids, SellOrders: asks}
}

func TestStaticBandDecide(t *testing.T) {
	cfg := StaticBandConfig{BuyPrice: 9998, SellPrice: 10002, PositionLimit: 20}
	s := NewStaticBand(cfg, discardLogger())

	run := func(t *testing.T, d domain.OrderDepth, position int) []domain.Order {
		t.Helper()
		var log domain.TickLog
		orders, err := s.Decide(context.Background(), Input{
			Symbol:   "AMETHYSTS",
			Depth:    d,
			Position: position,
			Log:      &log,
		})
		require.NoError(t, err)
		return orders
	}

	t.Run("no orders inside the band", func(t *testing.T) {
		orders := run(t, depth(map[int]int{10000: 5}, map[int]int{10001: -5}), 0)
		assert.Empty(t, orders)
	})

	t.Run("buys when the ask crosses", func(t *testing.T) {
		orders := run(t, depth(map[int]int{9995: 5}, map[int]int{9997: -7}), 0)
		require.Len(t, orders, 1)
		assert.Equal(t, domain.Order{Symbol: "AMETHYSTS", Price: 9997, Quantity: 7}, orders[0])
	})

	t.Run("sells when the bid crosses", func(t *testing.T) {
		orders := run(t, depth(map[int]int{10003: 4}, map[int]int{10005: -5}), 0)
		require.Len(t, orders, 1)
		assert.Equal(t, domain.Order{Symbol: "AMETHYSTS", Price: 10003, Quantity: -4}, orders[0])
	})

	t.Run("both sides fire in one tick", func(t *testing.T) {
		orders := run(t, depth(map[int]int{10002: 4}, map[int]int{9998: -6}), 0)
		require.Len(t, orders, 2)
		assert.Equal(t, domain.Order{Symbol: "AMETHYSTS", Price: 9998, Quantity: 6}, orders[0])
		assert.Equal(t, domain.Order{Symbol: "AMETHYSTS", Price: 10002, Quantity: -4}, orders[1])
	})

	t.Run("buy clamps to remaining headroom", func(t *testing.T) {
		orders := run(t, depth(nil, map[int]int{9997: -50}), 15)
		require.Len(t, orders, 1)
		assert.Equal(t, 5, orders[0].Quantity)
	})

	t.Run("no buy at the long limit", func(t *testing.T) {
		orders := run(t, depth(nil, map[int]int{9997: -50}), 20)
		assert.Empty(t, orders)
	})

	t.Run("no sell at the short limit", func(t *testing.T) {
		orders := run(t, depth(map[int]int{10003: 50}, nil), -20)
		assert.Empty(t, orders)
	})

	t.Run("empty book is a no-op", func(t *testing.T) {
		orders := run(t, depth(nil, nil), 0)
		assert.Empty(t, orders)
	})
}

func TestStaticBandIsStateless(t *testing.T) {
	s := NewStaticBand(StaticBandConfig{BuyPrice: 1, SellPrice: 2, PositionLimit: 1}, discardLogger())
	assert.Nil(t, s.NewState())
	assert.Equal(t, "static_band", s.Name())
}
