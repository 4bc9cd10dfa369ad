package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is wrapped by every *ParamError.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEmptySample is returned when a Monte Carlo estimate is asked of zero prices.
	ErrEmptySample = errors.New("empty sample")

	// ErrNoConvergence is returned by ImpliedVol when Newton-Raphson stalls.
	ErrNoConvergence = errors.New("implied vol did not converge")
)

// ParamError names the offending input.
type ParamError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ParamError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s: %g", e.Field, e.Value)
	}
	if e.Field == "type" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %g: %s", e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParameter }
