package simulation

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/contactkeval/option-mc/internal/pricing"
)

// Bin is one histogram bucket [Lower, Upper).
type Bin struct {
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
}

// Distribution summarises a sample of simulated prices.
type Distribution struct {
	Samples   int     `json:"samples"`
	NonFinite int     `json:"non_finite"` // overflowed prices left out of the statistics
	Mean      float64 `json:"mean"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	P05       float64 `json:"p05"`
	P50       float64 `json:"p50"`
	P95       float64 `json:"p95"`
	Bins      []Bin   `json:"bins"`
}

// Summarize computes moments, percentiles and an equal-width histogram of
// prices. The input is not modified. A sample with a single distinct value
// gets one bin.
//
// Prices that overflowed to +Inf (or are NaN) are counted in NonFinite and
// left out of every statistic; bin fractions are relative to the finite
// prices. A sample with no finite price has zero statistics and no bins.
func Summarize(prices []float64, bins int) (Distribution, error) {
	if bins < 1 {
		return Distribution{}, &pricing.ParamError{Field: "bins", Value: float64(bins), Reason: "must be at least 1"}
	}
	if len(prices) == 0 {
		return Distribution{}, pricing.ErrEmptySample
	}

	sorted := make([]float64, 0, len(prices))
	for _, s := range prices {
		if !math.IsNaN(s) && !math.IsInf(s, 0) {
			sorted = append(sorted, s)
		}
	}
	d := Distribution{Samples: len(prices), NonFinite: len(prices) - len(sorted)}
	n := len(sorted)
	if n == 0 {
		return d, nil
	}
	sort.Float64s(sorted)

	lo, hi := floats.Min(sorted), floats.Max(sorted)
	d.Mean = stat.Mean(sorted, nil)
	d.Min, d.Max = lo, hi
	d.P05 = stat.Quantile(0.05, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	if n > 1 {
		d.StdDev = stat.StdDev(sorted, nil)
	}

	if lo == hi {
		bins = 1
	}
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// the top divider is exclusive
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	d.Bins = make([]Bin, bins)
	for i, c := range counts {
		d.Bins[i] = Bin{
			Lower:    dividers[i],
			Upper:    dividers[i+1],
			Count:    int(c),
			Fraction: c / float64(n),
		}
	}
	return d, nil
}
