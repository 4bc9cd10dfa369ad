package pricing

import (
	"math"
	"strings"
)

// OptionType selects the payoff of a European option.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// ParseOptionType accepts "call"/"c" and "put"/"p" in any case.
// An empty string defaults to Call.
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return "", &ParamError{Field: "type", Reason: "must be call or put, got " + s}
}

// ModelParams holds the market assumptions at valuation time.
//
//   - Spot: price of the underlying (> 0)
//   - Rate: continuously compounded risk-free rate (annual)
//   - Volatility: annualised volatility as a decimal (> 0)
//   - Expiry: time to expiry in years (> 0)
type ModelParams struct {
	Spot       float64 `json:"spot"`
	Rate       float64 `json:"rate"`
	Volatility float64 `json:"volatility"`
	Expiry     float64 `json:"expiry"`
}

// Validate reports the first field that breaks the model's domain.
func (p ModelParams) Validate() error {
	if err := positive("spot", p.Spot); err != nil {
		return err
	}
	if math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0) {
		return &ParamError{Field: "rate", Value: p.Rate, Reason: "must be finite"}
	}
	if err := positive("volatility", p.Volatility); err != nil {
		return err
	}
	return positive("expiry", p.Expiry)
}

// Contract is a European option on the modelled underlying.
type Contract struct {
	Strike float64    `json:"strike"`
	Type   OptionType `json:"type"`
}

// Validate checks the strike and option type.
func (c Contract) Validate() error {
	if err := positive("strike", c.Strike); err != nil {
		return err
	}
	switch c.Type {
	case Call, Put, "":
		return nil
	}
	return &ParamError{Field: "type", Reason: "must be call or put, got " + string(c.Type)}
}

// IsPut reports whether the contract pays max(K-S, 0).
// The zero Type is a call.
func (c Contract) IsPut() bool {
	return c.Type == Put
}

// Payoff is the value of the contract at expiry for an underlying price s.
func (c Contract) Payoff(s float64) float64 {
	if c.IsPut() {
		return math.Max(c.Strike-s, 0)
	}
	return math.Max(s-c.Strike, 0)
}

func positive(field string, v float64) error {
	// !(v > 0) also rejects NaN
	if !(v > 0) || math.IsInf(v, 0) {
		return &ParamError{Field: field, Value: v, Reason: "must be positive and finite"}
	}
	return nil
}
