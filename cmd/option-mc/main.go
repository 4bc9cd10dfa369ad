package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/contactkeval/option-mc/internal/config"
	"github.com/contactkeval/option-mc/internal/engine"
	"github.com/contactkeval/option-mc/internal/logger"
	"github.com/contactkeval/option-mc/internal/report"
)

func main() {
	configPath := flag.String("config", "", "path to YAML or JSON config (defaults apply when empty)")
	samples := flag.Int("samples", 0, "number of Monte Carlo samples (overrides config)")
	seed := flag.Uint64("seed", 0, "seed for pseudo-random draws (overrides config)")
	workers := flag.Int("workers", -1, "simulation goroutines, 0 = GOMAXPROCS (overrides config)")
	drawKind := flag.String("draws", "", "draw provider: synthetic, stratified, antithetic or file")
	drawsFile := flag.String("draws-file", "", "file of standard-normal draws for -draws=file")
	sweep := flag.String("sweep", "", "comma-separated sample sizes for a convergence sweep, e.g. 1e3,1e4,1e5")
	reportDir := flag.String("report-dir", "", "directory for result.json and CSV reports")
	verbosity := flag.String("v", "", "log level: error, warn, info, debug, trace or 0-4")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	// flags win over file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "samples":
			cfg.Simulation.Samples = *samples
		case "seed":
			cfg.Simulation.Seed = *seed
		case "workers":
			cfg.Simulation.Workers = *workers
		case "draws":
			cfg.Simulation.Draws = *drawKind
		case "draws-file":
			cfg.Simulation.DrawsFile = *drawsFile
		case "report-dir":
			cfg.Report.Dir = *reportDir
		case "v":
			cfg.Logging.Level = *verbosity
		}
	})
	if *sweep != "" {
		sizes, err := config.ParseSizes(*sweep)
		if err != nil {
			logger.Errorf("-sweep: %v", err)
			os.Exit(2)
		}
		cfg.Report.Sweep = sizes
	}

	if err := cfg.Validate(); err != nil {
		logger.Errorf("invalid config: %v", err)
		os.Exit(2)
	}
	level, _ := logger.ParseLevel(cfg.Logging.Level)
	logger.SetVerbosity(int(level))

	if err := run(cfg); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	prov, err := engine.NewProvider(cfg)
	if err != nil {
		return fmt.Errorf("draw provider: %w", err)
	}
	eng := engine.NewEngine(cfg, prov)

	res, err := eng.Run(ctx)
	if err != nil {
		return fmt.Errorf("pricing failed: %w", err)
	}
	fmt.Println(report.Summary(res))

	var points []engine.ConvergencePoint
	if len(cfg.Report.Sweep) > 0 {
		points, err = eng.Sweep(ctx, cfg.Report.Sweep)
		if err != nil {
			return fmt.Errorf("convergence sweep failed: %w", err)
		}
		for _, p := range points {
			fmt.Printf("n=%-10d value=%.6f se=%.6f abs_error=%.6f (%d ms)\n",
				p.Samples, p.Value, p.StdError, p.AbsError, p.ElapsedMs)
		}
	}

	dir := cfg.Report.Dir
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create report dir %s: %w", dir, err)
	}
	if err := report.WriteJSON(res, dir); err != nil {
		return fmt.Errorf("writing %s: %w", report.ResultFile, err)
	}
	if err := report.WriteDistributionCSV(*res.Distribution, dir); err != nil {
		return err
	}
	if points != nil {
		if err := report.WriteConvergenceCSV(points, dir); err != nil {
			return err
		}
	}
	logger.Infof("finished in %d ms, reports written to %s", res.ElapsedMs, dir)
	return nil
}
