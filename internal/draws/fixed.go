package draws

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/contactkeval/option-mc/internal/logger"
)

// fixedProvider replays a finite, injected sequence of draws.
type fixedProvider struct {
	name      string
	draws     []float64
	pos       int
	secondary Provider
}

// NewFixedProvider replays draws in order. Once they are used up the
// remainder of a request comes from secondary; with no secondary the request
// fails with ErrExhausted and nothing is consumed.
func NewFixedProvider(draws []float64, secondary Provider) Provider {
	cp := make([]float64, len(draws))
	copy(cp, draws)
	return &fixedProvider{name: "fixed", draws: cp, secondary: secondary}
}

// NewFileProvider loads draws from a text or CSV file: numbers separated by
// commas or newlines, blank lines and lines starting with '#' ignored.
func NewFileProvider(path string, secondary Provider) (Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open draws file: %w", err)
	}
	defer f.Close()

	values, err := parseDraws(f)
	if err != nil {
		return nil, fmt.Errorf("read draws file %s: %w", path, err)
	}
	logger.Infof("loaded %d draws from %s", len(values), path)

	return &fixedProvider{name: KindFile + ":" + path, draws: values, secondary: secondary}, nil
}

func parseDraws(r io.Reader) ([]float64, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []float64
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			line, _ := cr.FieldPos(i)
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("line %d: draw %q is not finite", line, cell)
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func (fixed *fixedProvider) Name() string {
	return fixed.name
}

func (fixed *fixedProvider) Secondary() Provider {
	return fixed.secondary
}

// Remaining reports how many injected draws are left.
func (fixed *fixedProvider) Remaining() int {
	return len(fixed.draws) - fixed.pos
}

func (fixed *fixedProvider) Draws(n int) ([]float64, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}

	left := fixed.Remaining()
	if n > left && fixed.secondary == nil {
		return nil, fmt.Errorf("%s: want %d, have %d: %w", fixed.name, n, left, ErrExhausted)
	}

	take := min(n, left)
	out := make([]float64, 0, n)
	out = append(out, fixed.draws[fixed.pos:fixed.pos+take]...)

	if rest := n - take; rest > 0 {
		logger.Debugf("%s exhausted, delegating %d draws to %s", fixed.name, rest, fixed.secondary.Name())
		more, err := fixed.secondary.Draws(rest)
		if err != nil {
			return nil, err
		}
		out = append(out, more...)
	}

	fixed.pos += take
	return out, nil
}
