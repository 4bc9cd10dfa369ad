package simulation

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-mc/internal/draws"
	"github.com/contactkeval/option-mc/internal/pricing"
)

var reference = pricing.ModelParams{Spot: 100, Rate: 0.03, Volatility: 0.4, Expiry: 0.25}

func TestTerminalPrice_KnownValues(t *testing.T) {
	tests := []struct {
		z    float64
		want float64
	}{
		{0, 98.75778004938815},
		{1, 120.62302494209807},
		{-1, 80.85603163214525},
		{2.5, 162.82405261455096},
	}
	for _, tt := range tests {
		got, err := TerminalPrice(reference, tt.z)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "z=%v", tt.z)
	}
}

func TestTerminalPrice_Positive(t *testing.T) {
	for _, z := range []float64{-40, -8, 0, 8, 40} {
		s, err := TerminalPrice(reference, z)
		require.NoError(t, err)
		if !(s > 0) || math.IsInf(s, 0) {
			t.Fatalf("terminal price for z=%v should be positive and finite, got %v", z, s)
		}
	}
}

func TestSimulate_OrderAndLength(t *testing.T) {
	zs := []float64{1, 0, -1}
	prices, err := Simulate(reference, zs)
	require.NoError(t, err)
	require.Len(t, prices, 3)
	assert.Greater(t, prices[0], prices[1])
	assert.Greater(t, prices[1], prices[2])

	empty, err := Simulate(reference, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSimulate_Deterministic(t *testing.T) {
	zs, err := draws.NewSyntheticProvider(11).Draws(5000)
	require.NoError(t, err)

	a, err := Simulate(reference, zs)
	require.NoError(t, err)
	b, err := Simulate(reference, zs)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSimulate_InvalidSpot(t *testing.T) {
	p := reference
	p.Spot = -1
	_, err := Simulate(p, []float64{0})
	require.ErrorIs(t, err, pricing.ErrInvalidParameter)

	var pe *pricing.ParamError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "spot", pe.Field)
}

func TestSimulateParallel_MatchesSerial(t *testing.T) {
	zs, err := draws.NewSyntheticProvider(3).Draws(10*MinChunk + 17)
	require.NoError(t, err)

	serial, err := Simulate(reference, zs)
	require.NoError(t, err)

	for _, workers := range []int{0, 1, 2, 3, 8, 64} {
		parallel, err := SimulateParallel(context.Background(), reference, zs, workers)
		require.NoError(t, err)
		assert.Equal(t, serial, parallel, "workers=%d", workers)
	}
}

func TestSimulateParallel_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SimulateParallel(ctx, reference, make([]float64, 4*MinChunk), 4)
	require.ErrorIs(t, err, context.Canceled)

	_, err = SimulateParallel(ctx, reference, []float64{0}, 4)
	require.ErrorIs(t, err, context.Canceled)
}

func TestChunks(t *testing.T) {
	assert.Nil(t, Chunks(0, 4))
	assert.Equal(t, []Chunk{{0, 10}}, Chunks(10, 4))
	assert.Equal(t, []Chunk{{0, 2 * MinChunk}}, Chunks(2*MinChunk, 0))

	for _, tc := range []struct{ n, workers, want int }{
		{MinChunk, 8, 1},
		{MinChunk + 1, 8, 1},
		{2*MinChunk - 1, 8, 1},
		{2 * MinChunk, 8, 2},
		{10 * MinChunk, 4, 4},
		{10*MinChunk + 3, 16, 10},
	} {
		chunks := Chunks(tc.n, tc.workers)
		require.Len(t, chunks, tc.want, "n=%d workers=%d", tc.n, tc.workers)

		next := 0
		for _, c := range chunks {
			assert.Equal(t, next, c.Start)
			assert.GreaterOrEqual(t, c.End-c.Start, MinChunk, "n=%d workers=%d", tc.n, tc.workers)
			next = c.End
		}
		assert.Equal(t, tc.n, next)
	}
}
