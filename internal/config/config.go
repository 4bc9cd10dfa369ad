package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/contactkeval/option-mc/internal/draws"
	"github.com/contactkeval/option-mc/internal/logger"
	"github.com/contactkeval/option-mc/internal/pricing"
)

// ModelConfig holds the Black-Scholes-Merton market parameters.
type ModelConfig struct {
	Spot       float64 `yaml:"spot"`
	Rate       float64 `yaml:"rate"`       // continuously compounded, annualised
	Volatility float64 `yaml:"volatility"` // annualised
	Expiry     float64 `yaml:"expiry"`     // years
}

type OptionConfig struct {
	Strike float64 `yaml:"strike"`
	Type   string  `yaml:"type"` // "call" or "put", defaults to "call"
}

// SimulationConfig controls how many draws are taken and where they come from.
type SimulationConfig struct {
	Samples   int    `yaml:"samples"`
	Seed      uint64 `yaml:"seed"`       // 0 = seed from the clock
	Workers   int    `yaml:"workers"`    // 0 = GOMAXPROCS
	Draws     string `yaml:"draws"`      // synthetic, stratified, antithetic, file
	DrawsFile string `yaml:"draws_file"` // required when draws is "file"
}

type ReportConfig struct {
	Dir   string `yaml:"dir"`   // empty = no files written
	Bins  int    `yaml:"bins"`  // histogram bins
	Sweep []int  `yaml:"sweep"` // sample sizes for the convergence sweep
}

type LoggingConfig struct {
	Level string `yaml:"level"` // error, warn, info, debug, trace or 0-4
}

type Config struct {
	Model      ModelConfig      `yaml:"model"`
	Option     OptionConfig     `yaml:"option"`
	Simulation SimulationConfig `yaml:"simulation"`
	Report     ReportConfig     `yaml:"report"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// Default is the reference scenario: an at-the-money-ish quarter-year call.
func Default() *Config {
	return &Config{
		Model:      ModelConfig{Spot: 100, Rate: 0.03, Volatility: 0.4, Expiry: 0.25},
		Option:     OptionConfig{Strike: 105, Type: string(pricing.Call)},
		Simulation: SimulationConfig{Samples: 1_000_000, Seed: 42, Draws: draws.KindSynthetic},
		Report:     ReportConfig{Bins: 50},
		Logging:    LoggingConfig{Level: "info"},
	}
}

// Load reads the YAML (or JSON) file at path over the defaults and then
// applies OPTMC_* environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Model.Spot = getEnvFloat("OPTMC_SPOT", c.Model.Spot)
	c.Model.Rate = getEnvFloat("OPTMC_RATE", c.Model.Rate)
	c.Model.Volatility = getEnvFloat("OPTMC_VOLATILITY", c.Model.Volatility)
	c.Model.Expiry = getEnvFloat("OPTMC_EXPIRY", c.Model.Expiry)

	c.Option.Strike = getEnvFloat("OPTMC_STRIKE", c.Option.Strike)
	c.Option.Type = getEnv("OPTMC_OPTION_TYPE", c.Option.Type)

	c.Simulation.Samples = getEnvInt("OPTMC_SAMPLES", c.Simulation.Samples)
	c.Simulation.Seed = getEnvUint64("OPTMC_SEED", c.Simulation.Seed)
	c.Simulation.Workers = getEnvInt("OPTMC_WORKERS", c.Simulation.Workers)
	c.Simulation.Draws = getEnv("OPTMC_DRAWS", c.Simulation.Draws)
	c.Simulation.DrawsFile = getEnv("OPTMC_DRAWS_FILE", c.Simulation.DrawsFile)

	c.Report.Dir = getEnv("OPTMC_REPORT_DIR", c.Report.Dir)
	c.Report.Bins = getEnvInt("OPTMC_BINS", c.Report.Bins)
	c.Logging.Level = getEnv("OPTMC_LOG_LEVEL", c.Logging.Level)

	if v := os.Getenv("OPTMC_SWEEP"); v != "" {
		sizes, err := ParseSizes(v)
		if err != nil {
			return fmt.Errorf("OPTMC_SWEEP: %w", err)
		}
		c.Report.Sweep = sizes
	}
	return nil
}

// Params returns the model parameters as the pricing package expects them.
func (c *Config) Params() pricing.ModelParams {
	return pricing.ModelParams{
		Spot:       c.Model.Spot,
		Rate:       c.Model.Rate,
		Volatility: c.Model.Volatility,
		Expiry:     c.Model.Expiry,
	}
}

// Contract returns the configured option. Call Validate first; an unknown
// type falls back to a call here.
func (c *Config) Contract() pricing.Contract {
	t, err := pricing.ParseOptionType(c.Option.Type)
	if err != nil {
		t = pricing.Call
	}
	return pricing.Contract{Strike: c.Option.Strike, Type: t}
}

// Validate checks the whole configuration up front.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	t, err := pricing.ParseOptionType(c.Option.Type)
	if err != nil {
		return fmt.Errorf("option: %w", err)
	}
	if err := (pricing.Contract{Strike: c.Option.Strike, Type: t}).Validate(); err != nil {
		return fmt.Errorf("option: %w", err)
	}

	sim := c.Simulation
	if sim.Samples < 1 {
		return fmt.Errorf("simulation: samples must be at least 1, got %d", sim.Samples)
	}
	if sim.Workers < 0 {
		return fmt.Errorf("simulation: workers must not be negative, got %d", sim.Workers)
	}
	switch strings.ToLower(strings.TrimSpace(sim.Draws)) {
	case "", draws.KindSynthetic, draws.KindStratified, draws.KindAntithetic:
	case draws.KindFile:
		if sim.DrawsFile == "" {
			return fmt.Errorf("simulation: draws_file is required for file draws")
		}
	default:
		return fmt.Errorf("simulation: unknown draws %q", sim.Draws)
	}

	if c.Report.Bins < 1 {
		return fmt.Errorf("report: bins must be at least 1, got %d", c.Report.Bins)
	}
	for _, n := range c.Report.Sweep {
		if n < 1 {
			return fmt.Errorf("report: sweep sizes must be positive, got %d", n)
		}
	}

	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// ParseSizes parses a comma-separated list of sample sizes such as
// "1000,10000,1e5". Scientific notation is accepted for whole numbers.
func ParseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			f, ferr := strconv.ParseFloat(part, 64)
			if ferr != nil || f != float64(int(f)) {
				return nil, fmt.Errorf("invalid sample size %q", part)
			}
			n = int(f)
		}
		if n < 1 {
			return nil, fmt.Errorf("sample size must be positive, got %d", n)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
		logger.Warnf("ignoring %s=%q: not an integer", key, value)
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseUint(value, 10, 64); err == nil {
			return parsed
		}
		logger.Warnf("ignoring %s=%q: not an unsigned integer", key, value)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
		logger.Warnf("ignoring %s=%q: not a number", key, value)
	}
	return defaultValue
}
