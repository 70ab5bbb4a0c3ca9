// Package output writes model results to disk: per-year schedules as CSV or
// JSON lines, and run-level summaries as indented JSON.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dutchbay/windward/internal/scenario"
)

// Format selects the annual-schedule file format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSONL:
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want csv or jsonl)", s)
	}
}

// Writer writes result files under a single output directory.
type Writer struct {
	dir string
	log zerolog.Logger
}

// NewWriter creates the output directory if needed.
func NewWriter(dir string, log zerolog.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{dir: dir, log: log.With().Str("component", "output").Logger()}, nil
}

// WriteAnnual writes the per-year schedule for one result in the requested
// format and returns the file path.
func (w *Writer) WriteAnnual(res *scenario.Result, format Format) (string, error) {
	switch format {
	case FormatJSONL:
		return w.writeAnnualJSONL(res)
	default:
		return w.writeAnnualCSV(res)
	}
}

var annualHeader = []string{
	"year", "cfads_usd", "equity_cf_usd", "dscr",
	"interest_usd", "principal_usd", "debt_service_usd",
	"dsra_usd", "fee_usd",
}

func (w *Writer) writeAnnualCSV(res *scenario.Result) (string, error) {
	path := filepath.Join(w.dir, fileStem(res.Name)+"_annual.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(annualHeader); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for i, row := range res.Annual {
		dscr := ""
		if row.DSCR != nil {
			dscr = strconv.FormatFloat(*row.DSCR, 'f', 4, 64)
		}
		record := []string{
			strconv.Itoa(row.Year),
			money(row.CFADS),
			money(row.EquityCF),
			dscr,
			money(seriesAt(res.InterestSeries, i)),
			money(seriesAt(res.PrincipalSeries, i)),
			money(seriesAt(res.DebtService, i)),
			money(seriesAt(res.DSRACashflows, i)),
			money(seriesAt(res.FeeCashflows, i)),
		}
		if err := cw.Write(record); err != nil {
			return "", fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flushing %s: %w", path, err)
	}

	w.log.Debug().Str("path", path).Int("rows", len(res.Annual)).Msg("Annual schedule written")
	return path, nil
}

// annualLine is the JSONL row shape. Schedule series are folded into the row
// so each line stands alone.
type annualLine struct {
	Year         int      `json:"year"`
	CFADSUSD     float64  `json:"cfads_usd"`
	EquityCFUSD  float64  `json:"equity_cf_usd"`
	DSCR         *float64 `json:"dscr"`
	InterestUSD  float64  `json:"interest_usd"`
	PrincipalUSD float64  `json:"principal_usd"`
	ServiceUSD   float64  `json:"debt_service_usd"`
	DSRAUSD      float64  `json:"dsra_usd"`
	FeeUSD       float64  `json:"fee_usd"`
}

func (w *Writer) writeAnnualJSONL(res *scenario.Result) (string, error) {
	path := filepath.Join(w.dir, fileStem(res.Name)+"_annual.jsonl")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for i, row := range res.Annual {
		line := annualLine{
			Year:         row.Year,
			CFADSUSD:     row.CFADS,
			EquityCFUSD:  row.EquityCF,
			DSCR:         row.DSCR,
			InterestUSD:  seriesAt(res.InterestSeries, i),
			PrincipalUSD: seriesAt(res.PrincipalSeries, i),
			ServiceUSD:   seriesAt(res.DebtService, i),
			DSRAUSD:      seriesAt(res.DSRACashflows, i),
			FeeUSD:       seriesAt(res.FeeCashflows, i),
		}
		if err := enc.Encode(line); err != nil {
			return "", fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	w.log.Debug().Str("path", path).Int("rows", len(res.Annual)).Msg("Annual schedule written")
	return path, nil
}

// WriteSummary writes one indented-JSON file covering every scenario result.
func (w *Writer) WriteSummary(results []*scenario.Result) (string, error) {
	path := filepath.Join(w.dir, "summary.json")
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	w.log.Debug().Str("path", path).Int("scenarios", len(results)).Msg("Summary written")
	return path, nil
}

// WriteSweep writes a Monte Carlo sweep. Per-draw results are dropped; the
// draws and the summary are enough to reproduce and report the sweep.
func (w *Writer) WriteSweep(sweep *scenario.SweepResult) (string, error) {
	slim := *sweep
	slim.Results = nil

	path := filepath.Join(w.dir, fileStem(sweep.Scenario)+"_sweep.json")
	data, err := json.MarshalIndent(&slim, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling sweep: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	w.log.Debug().Str("path", path).Int("iterations", sweep.Summary.Iterations).Msg("Sweep written")
	return path, nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func seriesAt(series []float64, i int) float64 {
	if i < len(series) {
		return series[i]
	}
	return 0
}

// fileStem turns a scenario name into a safe file name component.
func fileStem(name string) string {
	if name == "" {
		return "scenario"
	}
	stem := strings.ToLower(name)
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, stem)
	return strings.Trim(stem, "_")
}
