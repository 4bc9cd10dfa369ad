package pricing

import (
	"math"
)

const sqrt2Pi = 2.5066282746310002

// CallPrice calculates the price of a European call under Black-Scholes-Merton.
//
//	d1   = [ln(S/K) + (r + sigma^2/2)T] / (sigma sqrt(T))
//	d2   = d1 - sigma sqrt(T)
//	call = N(d1) S - N(d2) K exp(-rT)
//
// Parameters:
//   - p: spot, rate, volatility and time to expiry
//   - strike: strike price of the option
//
// Returns:
//
//	The theoretical call price, or an error wrapping ErrInvalidParameter when
//	p or strike is outside the model's domain. Deep in or out of the money
//	inputs saturate N to 0 or 1 and are returned as is.
func CallPrice(p ModelParams, strike float64) (float64, error) {
	return Price(p, Contract{Strike: strike, Type: Call})
}

// PutPrice is CallPrice for a European put.
func PutPrice(p ModelParams, strike float64) (float64, error) {
	return Price(p, Contract{Strike: strike, Type: Put})
}

// Price values a European contract of either type.
func Price(p ModelParams, c Contract) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return price(p, c), nil
}

// price assumes validated inputs.
func price(p ModelParams, c Contract) float64 {
	d1, d2 := d1d2(p, c.Strike)
	df := math.Exp(-p.Rate * p.Expiry)

	if c.IsPut() {
		return c.Strike*df*normCDF(-d2) - p.Spot*normCDF(-d1)
	}
	return p.Spot*normCDF(d1) - c.Strike*df*normCDF(d2)
}

func d1d2(p ModelParams, strike float64) (float64, float64) {
	volSqrtT := p.Volatility * math.Sqrt(p.Expiry)
	d1 := (math.Log(p.Spot/strike) + (p.Rate+0.5*p.Volatility*p.Volatility)*p.Expiry) / volSqrtT
	return d1, d1 - volSqrtT
}

// Vega is the sensitivity of the option price to volatility, per unit of
// volatility (not per 1%). It is the same for calls and puts.
func Vega(p ModelParams, strike float64) (float64, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := positive("strike", strike); err != nil {
		return 0, err
	}
	return vega(p, strike), nil
}

func vega(p ModelParams, strike float64) float64 {
	d1, _ := d1d2(p, strike)
	return p.Spot * normPDF(d1) * math.Sqrt(p.Expiry)
}

// Intrinsic is the payoff of c if exercised against spot now.
func Intrinsic(spot float64, c Contract) float64 {
	return c.Payoff(spot)
}

// ImpliedVol solves for the volatility at which the model price of c equals
// marketPrice, using Newton-Raphson on vega.
//
// p.Volatility is used as the initial guess when positive, otherwise 20%.
// The market price must lie strictly inside the no-arbitrage bounds of the
// contract. Returns ErrNoConvergence if the iteration stalls.
func ImpliedVol(p ModelParams, c Contract, marketPrice float64) (float64, error) {
	sigma := p.Volatility
	if !(sigma > 0) {
		sigma = 0.20
	}
	p.Volatility = sigma
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := c.Validate(); err != nil {
		return 0, err
	}

	df := math.Exp(-p.Rate * p.Expiry)
	lower, upper := math.Max(p.Spot-c.Strike*df, 0), p.Spot
	if c.IsPut() {
		lower, upper = math.Max(c.Strike*df-p.Spot, 0), c.Strike*df
	}
	if !(marketPrice > lower && marketPrice < upper) {
		return 0, &ParamError{Field: "market price", Value: marketPrice, Reason: "outside no-arbitrage bounds"}
	}

	const (
		maxIter = 100
		tol     = 1e-10
	)

	for i := 0; i < maxIter; i++ {
		diff := price(p, c) - marketPrice
		if math.Abs(diff) < tol {
			return p.Volatility, nil
		}

		v := vega(p, c.Strike)
		if v < 1e-12 {
			break
		}

		p.Volatility -= diff / v

		// guardrails
		if p.Volatility <= 0 {
			p.Volatility = 1e-4
		}
		if p.Volatility > 5 {
			p.Volatility = 5
		}
	}

	return 0, ErrNoConvergence
}

// normPDF is the standard normal density exp(-x^2/2) / sqrt(2 pi).
func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// normCDF is the standard normal cumulative distribution function.
// Erfc keeps full relative precision in the lower tail where 1+Erf cancels.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}
