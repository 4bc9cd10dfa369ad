package simulation

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/contactkeval/option-mc/internal/pricing"
)

// z95 is the two-sided 95% standard normal quantile.
const z95 = 1.959963984540054

// Valuation is a Monte Carlo estimate of an option's present value.
type Valuation struct {
	Value      float64 `json:"value"`       // discounted mean payoff
	MeanPayoff float64 `json:"mean_payoff"` // undiscounted, always >= 0
	StdError   float64 `json:"std_error"`   // standard error of Value
	CILow      float64 `json:"ci_low"`      // 95% confidence interval
	CIHigh     float64 `json:"ci_high"`
	Samples    int     `json:"samples"`
}

// Contains reports whether x lies inside the 95% confidence interval.
func (v Valuation) Contains(x float64) bool {
	return x >= v.CILow && x <= v.CIHigh
}

// Value is the Monte Carlo price of a European call: the mean of
// max(price - strike, 0) over prices, discounted by exp(-rate * expiry).
//
// Returns ErrEmptySample for an empty prices slice and ErrInvalidParameter
// for a non-positive strike or expiry.
func Value(prices []float64, strike, rate, expiry float64) (float64, error) {
	v, err := Estimate(prices, pricing.Contract{Strike: strike, Type: pricing.Call}, rate, expiry)
	if err != nil {
		return 0, err
	}
	return v.Value, nil
}

// Payoffs maps every simulated terminal price to the contract's payoff.
func Payoffs(prices []float64, c pricing.Contract) []float64 {
	out := make([]float64, len(prices))
	for i, s := range prices {
		out[i] = c.Payoff(s)
	}
	return out
}

// MeanPayoff is the undiscounted sample mean of the contract's payoff.
func MeanPayoff(prices []float64, c pricing.Contract) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	if len(prices) == 0 {
		return 0, pricing.ErrEmptySample
	}
	return stat.Mean(Payoffs(prices, c), nil), nil
}

// Estimate values c over the simulated prices and reports the sampling error.
// The standard error shrinks as 1/sqrt(len(prices)); a single price has none.
func Estimate(prices []float64, c pricing.Contract, rate, expiry float64) (Valuation, error) {
	if err := c.Validate(); err != nil {
		return Valuation{}, err
	}
	if !(expiry > 0) || math.IsInf(expiry, 0) {
		return Valuation{}, &pricing.ParamError{Field: "expiry", Value: expiry, Reason: "must be positive and finite"}
	}
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return Valuation{}, &pricing.ParamError{Field: "rate", Value: rate, Reason: "must be finite"}
	}
	n := len(prices)
	if n == 0 {
		return Valuation{}, pricing.ErrEmptySample
	}

	payoffs := Payoffs(prices, c)
	df := math.Exp(-rate * expiry)

	var mean, se float64
	if n == 1 {
		mean = payoffs[0]
	} else {
		var std float64
		mean, std = stat.MeanStdDev(payoffs, nil)
		se = df * std / math.Sqrt(float64(n))
	}

	value := df * mean
	return Valuation{
		Value:      value,
		MeanPayoff: mean,
		StdError:   se,
		CILow:      value - z95*se,
		CIHigh:     value + z95*se,
		Samples:    n,
	}, nil
}
