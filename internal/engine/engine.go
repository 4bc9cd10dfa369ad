package engine

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/contactkeval/option-mc/internal/config"
	"github.com/contactkeval/option-mc/internal/draws"
	"github.com/contactkeval/option-mc/internal/logger"
	"github.com/contactkeval/option-mc/internal/pricing"
	"github.com/contactkeval/option-mc/internal/simulation"
)

type Engine struct {
	cfg  *config.Config
	prov draws.Provider
}

// Result compares one Monte Carlo run with the closed-form price.
type Result struct {
	Params       pricing.ModelParams      `json:"params"`
	Contract     pricing.Contract         `json:"contract"`
	Draws        string                   `json:"draws"`   // provider name
	Workers      int                      `json:"workers"` // goroutines used to simulate
	MonteCarlo   simulation.Valuation     `json:"monte_carlo"`
	ClosedForm   float64                  `json:"closed_form"`
	AbsError     float64                  `json:"abs_error"` // |monte carlo - closed form|
	WithinCI     bool                     `json:"within_ci"` // closed form inside the 95% interval
	Distribution *simulation.Distribution `json:"distribution,omitempty"`
	ElapsedMs    int64                    `json:"elapsed_ms"`
}

// ConvergencePoint is one sample size of a convergence sweep.
type ConvergencePoint struct {
	Samples   int     `json:"samples"`
	Value     float64 `json:"value"`
	StdError  float64 `json:"std_error"`
	AbsError  float64 `json:"abs_error"`
	ElapsedMs int64   `json:"elapsed_ms"`
}

func NewEngine(cfg *config.Config, prov draws.Provider) *Engine {
	return &Engine{cfg: cfg, prov: prov}
}

// NewProvider builds the draw provider the configuration asks for. A zero
// seed is replaced by one taken from the clock and logged so the run can be
// repeated.
func NewProvider(cfg *config.Config) (draws.Provider, error) {
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
		logger.Infof("no seed configured, using %d", seed)
	}
	return draws.New(cfg.Simulation.Draws, seed, cfg.Simulation.DrawsFile)
}

// Run draws the configured number of samples, simulates terminal prices,
// values the option and compares the estimate with the closed form.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	p, c := cfg.Params(), cfg.Contract()
	n := cfg.Simulation.Samples
	workers := e.workers()

	start := time.Now()
	logger.Infof("pricing %s K=%g S=%g r=%g sigma=%g T=%g with %d samples from %s",
		c.Type, c.Strike, p.Spot, p.Rate, p.Volatility, p.Expiry, n, e.prov.Name())

	val, prices, err := e.estimate(ctx, p, c, n, workers)
	if err != nil {
		return nil, err
	}

	exact, err := pricing.Price(p, c)
	if err != nil {
		return nil, fmt.Errorf("closed form: %w", err)
	}

	dist, err := simulation.Summarize(prices, cfg.Report.Bins)
	if err != nil {
		return nil, fmt.Errorf("summarizing prices: %w", err)
	}

	res := &Result{
		Params:       p,
		Contract:     c,
		Draws:        e.prov.Name(),
		Workers:      workers,
		MonteCarlo:   val,
		ClosedForm:   exact,
		AbsError:     math.Abs(val.Value - exact),
		WithinCI:     val.Contains(exact),
		Distribution: &dist,
		ElapsedMs:    time.Since(start).Milliseconds(),
	}
	logger.Infof("monte carlo %.6f (se %.6f), closed form %.6f, abs error %.6f",
		val.Value, val.StdError, exact, res.AbsError)
	if !res.WithinCI {
		logger.Warnf("closed form %.6f outside 95%% interval [%.6f, %.6f]", exact, val.CILow, val.CIHigh)
	}
	return res, nil
}

// Sweep values the option once per sample size, drawing fresh samples for
// each, to show how the error shrinks as the sample grows.
func (e *Engine) Sweep(ctx context.Context, sizes []int) ([]ConvergencePoint, error) {
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	p, c := cfg.Params(), cfg.Contract()
	workers := e.workers()

	exact, err := pricing.Price(p, c)
	if err != nil {
		return nil, fmt.Errorf("closed form: %w", err)
	}

	points := make([]ConvergencePoint, 0, len(sizes))
	for _, n := range sizes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if n < 1 {
			return nil, fmt.Errorf("sweep sample size must be positive, got %d", n)
		}

		start := time.Now()
		val, _, err := e.estimate(ctx, p, c, n, workers)
		if err != nil {
			return nil, err
		}
		pt := ConvergencePoint{
			Samples:   n,
			Value:     val.Value,
			StdError:  val.StdError,
			AbsError:  math.Abs(val.Value - exact),
			ElapsedMs: time.Since(start).Milliseconds(),
		}
		logger.Debugf("sweep n=%d value=%.6f abs error=%.6f", n, pt.Value, pt.AbsError)
		points = append(points, pt)
	}
	return points, nil
}

func (e *Engine) estimate(ctx context.Context, p pricing.ModelParams, c pricing.Contract, n, workers int) (simulation.Valuation, []float64, error) {
	zs, err := e.prov.Draws(n)
	if err != nil {
		return simulation.Valuation{}, nil, fmt.Errorf("drawing %d samples from %s: %w", n, e.prov.Name(), err)
	}
	prices, err := simulation.SimulateParallel(ctx, p, zs, workers)
	if err != nil {
		return simulation.Valuation{}, nil, fmt.Errorf("simulating prices: %w", err)
	}
	val, err := simulation.Estimate(prices, c, p.Rate, p.Expiry)
	if err != nil {
		return simulation.Valuation{}, nil, fmt.Errorf("valuing option: %w", err)
	}
	return val, prices, nil
}

func (e *Engine) workers() int {
	if w := e.cfg.Simulation.Workers; w > 0 {
		return w
	}
	return runtime.GOMAXPROCS(0)
}
