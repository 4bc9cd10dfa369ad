package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-mc/internal/config"
	"github.com/contactkeval/option-mc/internal/draws"
	"github.com/contactkeval/option-mc/internal/pricing"
)

func smallConfig(samples int) *config.Config {
	cfg := config.Default()
	cfg.Simulation.Samples = samples
	cfg.Simulation.Workers = 4
	cfg.Report.Bins = 20
	return cfg
}

func TestRun_Stratified(t *testing.T) {
	cfg := smallConfig(100_000)
	res, err := NewEngine(cfg, draws.NewStratifiedProvider()).Run(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 6.197850036621901, res.ClosedForm, 1e-9)
	assert.Less(t, res.AbsError, 1e-3)
	assert.True(t, res.WithinCI)
	assert.Equal(t, "stratified", res.Draws)
	assert.Equal(t, 4, res.Workers)
	assert.Equal(t, 100_000, res.MonteCarlo.Samples)
	assert.Equal(t, cfg.Params(), res.Params)

	require.NotNil(t, res.Distribution)
	assert.Len(t, res.Distribution.Bins, 20)
	assert.Equal(t, 100_000, res.Distribution.Samples)
}

func TestRun_SyntheticIsReproducible(t *testing.T) {
	cfg := smallConfig(20_000)
	a, err := NewEngine(cfg, draws.NewSyntheticProvider(5)).Run(context.Background())
	require.NoError(t, err)
	b, err := NewEngine(cfg, draws.NewSyntheticProvider(5)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.MonteCarlo, b.MonteCarlo)
	assert.Equal(t, a.Distribution, b.Distribution)
}

func TestRun_Put(t *testing.T) {
	cfg := smallConfig(100_000)
	cfg.Option.Type = "put"
	res, err := NewEngine(cfg, draws.NewStratifiedProvider()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, pricing.Put, res.Contract.Type)
	assert.InDelta(t, 10.413295792631423, res.ClosedForm, 1e-9)
	assert.Less(t, res.AbsError, 1e-3)
}

func TestRun_OverflowingPricesSaturate(t *testing.T) {
	cfg := smallConfig(1000)
	cfg.Model.Rate = 4000 // exp(1000) overflows every terminal price
	res, err := NewEngine(cfg, draws.NewStratifiedProvider()).Run(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 100, res.ClosedForm, 1e-9)
	require.NotNil(t, res.Distribution)
	assert.Equal(t, 1000, res.Distribution.NonFinite)
	assert.Empty(t, res.Distribution.Bins)
	assert.False(t, res.WithinCI)
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := smallConfig(10)
	cfg.Model.Spot = -1
	_, err := NewEngine(cfg, draws.NewStratifiedProvider()).Run(context.Background())
	require.ErrorIs(t, err, pricing.ErrInvalidParameter)
}

func TestRun_ProviderExhausted(t *testing.T) {
	cfg := smallConfig(10)
	prov := draws.NewFixedProvider([]float64{0, 1, -1}, nil)
	_, err := NewEngine(cfg, prov).Run(context.Background())
	require.ErrorIs(t, err, draws.ErrExhausted)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine(smallConfig(50_000), draws.NewStratifiedProvider()).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSweep_ErrorShrinks(t *testing.T) {
	sizes := []int{1_000, 10_000, 100_000}
	points, err := NewEngine(smallConfig(1), draws.NewStratifiedProvider()).Sweep(context.Background(), sizes)
	require.NoError(t, err)
	require.Len(t, points, len(sizes))

	for i, pt := range points {
		assert.Equal(t, sizes[i], pt.Samples)
		assert.Greater(t, pt.StdError, 0.0)
		if i > 0 {
			assert.Less(t, pt.AbsError, points[i-1].AbsError)
			assert.Less(t, pt.StdError, points[i-1].StdError)
		}
	}
}

func TestSweep_Errors(t *testing.T) {
	eng := NewEngine(smallConfig(1), draws.NewStratifiedProvider())

	_, err := eng.Sweep(context.Background(), []int{100, 0})
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Sweep(ctx, []int{100})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Draws = "antithetic"
	cfg.Simulation.Seed = 12
	prov, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "antithetic(synthetic(seed=12))", prov.Name())

	cfg.Simulation.Seed = 0
	cfg.Simulation.Draws = "synthetic"
	prov, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, "synthetic(seed=0)", prov.Name())
}
