package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactkeval/option-mc/internal/draws"
	"github.com/contactkeval/option-mc/internal/pricing"
)

const referenceStrike = 105.0

func simulated(t *testing.T, prov draws.Provider, n int) []float64 {
	t.Helper()
	zs, err := prov.Draws(n)
	require.NoError(t, err)
	prices, err := SimulateParallel(context.Background(), reference, zs, 4)
	require.NoError(t, err)
	return prices
}

func TestValue_HandComputed(t *testing.T) {
	prices := []float64{98.75778004938815, 120.62302494209807, 80.85603163214525, 162.82405261455096}

	got, err := Value(prices, referenceStrike, reference.Rate, reference.Expiry)
	require.NoError(t, err)
	assert.InDelta(t, 18.224571254862816, got, 1e-9)

	v, err := Estimate(prices, pricing.Contract{Strike: referenceStrike}, reference.Rate, reference.Expiry)
	require.NoError(t, err)
	assert.InDelta(t, 18.36176938916226, v.MeanPayoff, 1e-9)
	assert.InDelta(t, 13.557734832901543, v.StdError, 1e-9)
	assert.Equal(t, 4, v.Samples)
	assert.True(t, v.Contains(got))
}

func TestValue_EmptySample(t *testing.T) {
	_, err := Value(nil, referenceStrike, reference.Rate, reference.Expiry)
	require.ErrorIs(t, err, pricing.ErrEmptySample)

	_, err = MeanPayoff([]float64{}, pricing.Contract{Strike: referenceStrike})
	require.ErrorIs(t, err, pricing.ErrEmptySample)
}

func TestValue_InvalidInputs(t *testing.T) {
	prices := []float64{100}

	_, err := Value(prices, 0, reference.Rate, reference.Expiry)
	require.ErrorIs(t, err, pricing.ErrInvalidParameter)

	_, err = Value(prices, referenceStrike, reference.Rate, 0)
	require.ErrorIs(t, err, pricing.ErrInvalidParameter)
}

func TestValue_AllOutOfTheMoney(t *testing.T) {
	got, err := Value([]float64{50, 60, 104.99}, referenceStrike, reference.Rate, reference.Expiry)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	mean, err := MeanPayoff([]float64{50, 60}, pricing.Contract{Strike: referenceStrike})
	require.NoError(t, err)
	assert.Equal(t, 0.0, mean)
}

func TestEstimate_SinglePriceHasNoError(t *testing.T) {
	v, err := Estimate([]float64{110}, pricing.Contract{Strike: 100}, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v.Value)
	assert.Equal(t, 0.0, v.StdError)
	assert.Equal(t, v.Value, v.CILow)
	assert.Equal(t, v.Value, v.CIHigh)
}

func TestMeanPayoff_Put(t *testing.T) {
	mean, err := MeanPayoff([]float64{90, 100, 120}, pricing.Contract{Strike: 100, Type: pricing.Put})
	require.NoError(t, err)
	assert.InDelta(t, 10.0/3, mean, 1e-12)
}

func TestPayoffs_NeverNegative(t *testing.T) {
	prices := simulated(t, draws.NewSyntheticProvider(77), 20_000)
	for _, c := range []pricing.Contract{{Strike: referenceStrike}, {Strike: referenceStrike, Type: pricing.Put}} {
		for i, p := range Payoffs(prices, c) {
			if p < 0 {
				t.Fatalf("payoff %d for %s is negative: %v", i, c.Type, p)
			}
		}
	}
}

func TestMonteCarlo_ConvergesToClosedForm(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping million-sample convergence in short mode")
	}
	exact, err := pricing.CallPrice(reference, referenceStrike)
	require.NoError(t, err)

	tests := []struct {
		name string
		prov draws.Provider
		tol  float64
	}{
		{"synthetic", draws.NewSyntheticProvider(20240617), 0.05},
		{"antithetic", draws.NewAntitheticProvider(draws.NewSyntheticProvider(1)), 0.05},
		{"stratified", draws.NewStratifiedProvider(), 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := simulated(t, tt.prov, 1_000_000)
			got, err := Value(prices, referenceStrike, reference.Rate, reference.Expiry)
			require.NoError(t, err)
			assert.InDelta(t, exact, got, tt.tol)
		})
	}
}

func TestEstimate_PutMatchesClosedForm(t *testing.T) {
	prices := simulated(t, draws.NewStratifiedProvider(), 200_000)
	c := pricing.Contract{Strike: referenceStrike, Type: pricing.Put}

	v, err := Estimate(prices, c, reference.Rate, reference.Expiry)
	require.NoError(t, err)

	exact, err := pricing.Price(reference, c)
	require.NoError(t, err)
	assert.InDelta(t, exact, v.Value, 0.01)
	assert.Greater(t, v.StdError, 0.0)
}
