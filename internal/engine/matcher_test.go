package engine

import (
	"testing"

	"signal_gate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	cases := []struct {
		raw     string
		want    models.Side
		wantErr bool
	}{
		{raw: "buy", want: models.SideBuy},
		{raw: "BUY", want: models.SideBuy},
		{raw: "go long", want: models.SideBuy},
		{raw: "sell", want: models.SideSell},
		{raw: "strategy.close short", want: models.SideSell},
		{raw: "  Sell Alert  ", want: models.SideSell},
		{raw: "hold", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			side, err := ParseAction(tc.raw)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidAction)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, side)
		})
	}
}

func TestMatcher_Match(t *testing.T) {
	strategies := []models.Strategy{
		{ID: 1, Name: "breakout", Direction: models.DirectionBoth, Enabled: true},
		{ID: 2, Name: "longs-only", Direction: models.DirectionLong, Enabled: true},
		{ID: 3, Name: "disabled", Direction: models.DirectionBoth, Enabled: false},
	}
	m := NewMatcher()

	t.Run("exact match both directions", func(t *testing.T) {
		strat, side, err := m.Match(strategies, models.TradeSignal{StrategyName: "breakout", Action: "sell"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), strat.ID)
		assert.Equal(t, models.SideSell, side)
	})

	t.Run("name is case-sensitive", func(t *testing.T) {
		_, _, err := m.Match(strategies, models.TradeSignal{StrategyName: "Breakout", Action: "buy"})
		require.ErrorIs(t, err, ErrStrategyNotFound)
	})

	t.Run("disabled strategy not matched", func(t *testing.T) {
		_, _, err := m.Match(strategies, models.TradeSignal{StrategyName: "disabled", Action: "buy"})
		require.ErrorIs(t, err, ErrStrategyNotFound)
	})

	t.Run("direction mismatch", func(t *testing.T) {
		_, _, err := m.Match(strategies, models.TradeSignal{StrategyName: "longs-only", Action: "sell"})
		require.ErrorIs(t, err, ErrDirectionMismatch)
	})

	t.Run("long-only accepts buy", func(t *testing.T) {
		strat, side, err := m.Match(strategies, models.TradeSignal{StrategyName: "longs-only", Action: "buy"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), strat.ID)
		assert.Equal(t, models.SideBuy, side)
	})

	t.Run("unknown strategy reported before bad action", func(t *testing.T) {
		_, _, err := m.Match(strategies, models.TradeSignal{StrategyName: "nope", Action: "hold"})
		require.ErrorIs(t, err, ErrStrategyNotFound)
	})

	t.Run("bad action on known strategy", func(t *testing.T) {
		_, _, err := m.Match(strategies, models.TradeSignal{StrategyName: "breakout", Action: "hold"})
		require.ErrorIs(t, err, ErrInvalidAction)
	})
}
