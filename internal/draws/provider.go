// Package draws supplies standard-normal samples to the simulator.
//
// Randomness is an explicit input of every pricing computation: callers ask a
// Provider for n draws and pass the slice on. Providers chain like market data
// sources do: a provider that cannot satisfy a request delegates the
// remainder to its Secondary, if any.
//
// Providers are not safe for concurrent use.
package draws

import (
	"errors"
	"fmt"
	"strings"
)

// Provider supplies standard-normal draws (mean 0, variance 1).
type Provider interface {
	// Name identifies the provider in logs and reports.
	Name() string
	// Secondary is the fallback consulted when this provider runs dry.
	Secondary() Provider
	// Draws returns the next n draws. n == 0 yields an empty slice.
	Draws(n int) ([]float64, error)
}

// Kinds accepted by New.
const (
	KindSynthetic  = "synthetic"
	KindStratified = "stratified"
	KindAntithetic = "antithetic"
	KindFile       = "file"
)

var (
	// ErrExhausted is returned when a finite provider has no secondary to fall back on.
	ErrExhausted = errors.New("draws exhausted")

	errNegativeCount = errors.New("draw count must not be negative")
)

// New builds a provider by kind. seed feeds the pseudo-random kinds and path
// the file kind; each is ignored by the others.
func New(kind string, seed uint64, path string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindSynthetic:
		return NewSyntheticProvider(seed), nil
	case KindStratified:
		return NewStratifiedProvider(), nil
	case KindAntithetic:
		return NewAntitheticProvider(NewSyntheticProvider(seed)), nil
	case KindFile:
		if path == "" {
			return nil, fmt.Errorf("draw kind %q needs a file path", KindFile)
		}
		return NewFileProvider(path, nil)
	}
	return nil, fmt.Errorf("unknown draw kind %q", kind)
}

func checkCount(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", errNegativeCount, n)
	}
	return nil
}
