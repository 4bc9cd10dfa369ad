package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/contactkeval/option-mc/internal/engine"
	"github.com/contactkeval/option-mc/internal/simulation"
)

const (
	ResultFile       = "result.json"
	DistributionFile = "distribution.csv"
	ConvergenceFile  = "convergence.csv"
)

func WriteJSON(res *engine.Result, outdir string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, ResultFile), b, 0644)
}

// WriteDistributionCSV writes one row per histogram bin.
func WriteDistributionCSV(dist simulation.Distribution, outdir string) error {
	rows := make([][]string, 0, len(dist.Bins))
	for _, b := range dist.Bins {
		rows = append(rows, []string{
			fixed(b.Lower, 4),
			fixed(b.Upper, 4),
			strconv.Itoa(b.Count),
			fixed(b.Fraction, 6),
		})
	}
	return writeCSV(filepath.Join(outdir, DistributionFile),
		[]string{"lower", "upper", "count", "fraction"}, rows)
}

// WriteConvergenceCSV writes one row per sweep sample size.
func WriteConvergenceCSV(points []engine.ConvergencePoint, outdir string) error {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			strconv.Itoa(p.Samples),
			fixed(p.Value, 6),
			fixed(p.StdError, 6),
			fixed(p.AbsError, 6),
			strconv.FormatInt(p.ElapsedMs, 10),
		})
	}
	return writeCSV(filepath.Join(outdir, ConvergenceFile),
		[]string{"samples", "value", "std_error", "abs_error", "elapsed_ms"}, rows)
}

// Summary is the one-line comparison printed by the CLI.
func Summary(res *engine.Result) string {
	mc := res.MonteCarlo
	return fmt.Sprintf("%s K=%s: monte carlo %s ± %s (n=%d, %s), closed form %s, abs error %s",
		res.Contract.Type, fixed(res.Contract.Strike, 2),
		fixed(mc.Value, 4), fixed(mc.CIHigh-mc.Value, 4), mc.Samples, res.Draws,
		fixed(res.ClosedForm, 4), fixed(res.AbsError, 6))
}

func writeCSV(path string, headers []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(headers); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// fixed rounds v to places decimals. Overflowed values print as NaN or +Inf.
func fixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}
