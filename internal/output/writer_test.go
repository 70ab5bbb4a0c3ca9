package output

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dutchbay/windward/internal/scenario"
)

func sampleResult() *scenario.Result {
	dscr := 1.35
	return &scenario.Result{
		Name:            "Base Case 2026",
		Mode:            "debt_applied",
		DebtTotal:       70e6,
		EquityTotal:     30e6,
		InterestSeries:  []float64{5.6e6, 5.2e6},
		PrincipalSeries: []float64{4.8e6, 5.2e6},
		DebtService:     []float64{10.4e6, 10.4e6},
		Annual: []scenario.AnnualResult{
			{Year: 1, EquityCF: 3.6e6, CFADS: 14e6, DSCR: &dscr},
			{Year: 2, EquityCF: 3.6e6, CFADS: 14e6, DSCR: &dscr},
			{Year: 3, EquityCF: 14e6, CFADS: 14e6, DSCR: nil},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("jsonl")
	require.NoError(t, err)
	assert.Equal(t, FormatJSONL, f)

	_, err = ParseFormat("parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestWriteAnnualCSV(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, zerolog.Nop())
	require.NoError(t, err)

	path, err := w.WriteAnnual(sampleResult(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "base_case_2026_annual.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, annualHeader, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "14000000.00", records[1][1])
	assert.Equal(t, "1.3500", records[1][3])

	// Years past the tenor have no defined DSCR and no service columns.
	assert.Equal(t, "", records[3][3])
	assert.Equal(t, "0.00", records[3][6])
}

func TestWriteAnnualJSONL(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, zerolog.Nop())
	require.NoError(t, err)

	path, err := w.WriteAnnual(sampleResult(), FormatJSONL)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "base_case_2026_annual.jsonl"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []annualLine
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var line annualLine
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	require.NoError(t, sc.Err())
	require.Len(t, lines, 3)

	assert.Equal(t, 1, lines[0].Year)
	assert.InDelta(t, 14e6, lines[0].CFADSUSD, 1)
	require.NotNil(t, lines[0].DSCR)
	assert.InDelta(t, 1.35, *lines[0].DSCR, 1e-9)
	assert.Nil(t, lines[2].DSCR)
	assert.Zero(t, lines[2].ServiceUSD)
}

func TestWriteSummary(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, zerolog.Nop())
	require.NoError(t, err)

	path, err := w.WriteSummary([]*scenario.Result{sampleResult()})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back []*scenario.Result
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back, 1)
	assert.Equal(t, "Base Case 2026", back[0].Name)
	assert.InDelta(t, 70e6, back[0].DebtTotal, 1)
}

func TestWriteSweepDropsPerDrawResults(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, zerolog.Nop())
	require.NoError(t, err)

	sweep := &scenario.SweepResult{
		Scenario: "base",
		Config:   scenario.SweepConfig{Iterations: 2, Seed: 1},
		Draws:    []scenario.Draw{{USDRate: 0.07}, {USDRate: 0.08}},
		Results:  []*scenario.Result{sampleResult(), sampleResult()},
		Summary:  scenario.SweepSummary{Iterations: 2, Solved: 2, SuccessRate: 1},
	}

	path, err := w.WriteSweep(sweep)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var back scenario.SweepResult
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Len(t, back.Draws, 2)
	assert.Nil(t, back.Results)
	assert.Equal(t, 2, back.Summary.Iterations)

	// The caller's sweep is left intact.
	assert.Len(t, sweep.Results, 2)
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "base_case_2026", fileStem("Base Case 2026"))
	assert.Equal(t, "scenario", fileStem(""))
	assert.Equal(t, "a_b", fileStem("--A/B--"))
}
