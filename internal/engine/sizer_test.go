package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(f *fakeFactory) ExchangeClient {
	return f.ClientFor(fakeCredsFor("acc-1"))
}

func TestSizer_Size(t *testing.T) {
	s := NewSizer()
	ctx := context.Background()

	t.Run("damage cost over stop distance", func(t *testing.T) {
		f := newFakeFactory()
		got, err := s.Size(ctx, testClient(f), "BTCUSDT", 50, 45000, 44000)
		require.NoError(t, err)
		assert.InDelta(t, 0.05, got.Quantity, 1e-9)
		assert.Equal(t, "0.050", got.QtyStr)
		assert.InDelta(t, 2250.0, got.PositionValue, 1e-6)
	})

	t.Run("stop above entry works the same", func(t *testing.T) {
		f := newFakeFactory()
		got, err := s.Size(ctx, testClient(f), "BTCUSDT", 50, 44000, 45000)
		require.NoError(t, err)
		assert.InDelta(t, 0.05, got.Quantity, 1e-9)
	})

	t.Run("entry equals stop", func(t *testing.T) {
		f := newFakeFactory()
		_, err := s.Size(ctx, testClient(f), "BTCUSDT", 50, 45000, 45000)
		require.ErrorIs(t, err, ErrInvalidRiskParams)
	})

	t.Run("non-positive inputs", func(t *testing.T) {
		f := newFakeFactory()
		for _, in := range [][3]float64{
			{0, 45000, 44000},
			{-5, 45000, 44000},
			{50, 0, 44000},
			{50, 45000, -1},
			{math.NaN(), 45000, 44000},
			{50, math.Inf(1), 44000},
		} {
			_, err := s.Size(ctx, testClient(f), "BTCUSDT", in[0], in[1], in[2])
			assert.ErrorIs(t, err, ErrInvalidRiskParams, "inputs %v", in)
		}
	})

	t.Run("formatting failure falls back to 6 decimals", func(t *testing.T) {
		f := newFakeFactory()
		f.formatErr = true
		got, err := s.Size(ctx, testClient(f), "BTCUSDT", 10, 30000, 29999)
		require.NoError(t, err)
		// 10/1 = 10, без квантования биржей
		assert.InDelta(t, 10.0, got.Quantity, 1e-9)
		assert.InDelta(t, 300000.0, got.PositionValue, 1e-3)
	})

	t.Run("fallback rounds to 6 decimals", func(t *testing.T) {
		f := newFakeFactory()
		f.formatErr = true
		// 1/3 = 0.3333333... -> 0.333333
		got, err := s.Size(ctx, testClient(f), "BTCUSDT", 1, 4, 1)
		require.NoError(t, err)
		assert.InDelta(t, 0.333333, got.Quantity, 1e-9)
	})
}
