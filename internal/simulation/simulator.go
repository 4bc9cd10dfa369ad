// Package simulation simulates terminal prices under geometric Brownian
// motion and turns them into Monte Carlo option values.
//
// Nothing here draws random numbers: standard-normal draws are passed in,
// which keeps every function pure and reproducible.
package simulation

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/contactkeval/option-mc/internal/pricing"
)

// MinChunk is the smallest slice of draws handed to one worker.
const MinChunk = 4096

// gbm holds the two constants of the exact lognormal step.
type gbm struct {
	spot, drift, diffusion float64
}

func newGBM(p pricing.ModelParams) (gbm, error) {
	if err := p.Validate(); err != nil {
		return gbm{}, err
	}
	return gbm{
		spot:      p.Spot,
		drift:     (p.Rate - 0.5*p.Volatility*p.Volatility) * p.Expiry,
		diffusion: p.Volatility * math.Sqrt(p.Expiry),
	}, nil
}

func (g gbm) at(z float64) float64 {
	return g.spot * math.Exp(g.drift+g.diffusion*z)
}

func (g gbm) fill(dst, draws []float64) {
	for i, z := range draws {
		dst[i] = g.at(z)
	}
}

// TerminalPrice is the risk-neutral price at expiry for one standard-normal draw z:
//
//	S_T = S exp((r - sigma^2/2)T + sigma z sqrt(T))
func TerminalPrice(p pricing.ModelParams, z float64) (float64, error) {
	g, err := newGBM(p)
	if err != nil {
		return 0, err
	}
	return g.at(z), nil
}

// Simulate maps each draw to its terminal price. The result has the same
// length and order as draws; an empty draws slice gives an empty result.
func Simulate(p pricing.ModelParams, draws []float64) ([]float64, error) {
	g, err := newGBM(p)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(draws))
	g.fill(out, draws)
	return out, nil
}

// SimulateParallel is Simulate split into contiguous chunks run on up to
// workers goroutines. Each chunk writes only its own segment of the output,
// so the result is element-wise identical to Simulate. workers <= 1 or small
// inputs run inline. Cancellation is checked before each chunk starts.
func SimulateParallel(ctx context.Context, p pricing.ModelParams, draws []float64, workers int) ([]float64, error) {
	g, err := newGBM(p)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(draws))
	chunks := Chunks(len(draws), workers)
	if len(chunks) <= 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g.fill(out, draws)
		return out, nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, c := range chunks {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g.fill(out[c.Start:c.End], draws[c.Start:c.End])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Chunk is the half-open index range [Start, End).
type Chunk struct {
	Start, End int
}

// Chunks splits n items into at most workers contiguous ranges of at least
// MinChunk items (except when n itself is smaller), covering [0, n) in order.
func Chunks(n, workers int) []Chunk {
	if n == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if most := max(n/MinChunk, 1); workers > most {
		workers = most
	}

	size, rem := n/workers, n%workers
	out := make([]Chunk, 0, workers)
	start := 0
	for i := 0; i < workers; i++ {
		end := start + size
		if i < rem {
			end++
		}
		out = append(out, Chunk{Start: start, End: end})
		start = end
	}
	return out
}
