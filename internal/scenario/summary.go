package scenario

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SweepSummary aggregates a Monte Carlo sweep.
type SweepSummary struct {
	Iterations    int      `json:"iterations"`
	Solved        int      `json:"solved"`
	SuccessRate   float64  `json:"success_rate"`
	MeanEquityIRR *float64 `json:"mean_equity_irr,omitempty"`
	P10EquityIRR  *float64 `json:"p10_equity_irr,omitempty"`
	P90EquityIRR  *float64 `json:"p90_equity_irr,omitempty"`
	MeanDSCRMin   *float64 `json:"mean_dscr_min,omitempty"`
	BalloonRate   float64  `json:"balloon_rate"`
}

// SweepResult is a full sweep: every draw with its model outcome, plus the
// summary statistics.
type SweepResult struct {
	Scenario string       `json:"scenario"`
	Config   SweepConfig  `json:"config"`
	Draws    []Draw       `json:"draws,omitempty"`
	Results  []*Result    `json:"results,omitempty"`
	Summary  SweepSummary `json:"summary"`
}

// Summarize computes sweep statistics. Iterations where the equity IRR did
// not solve count against the success rate and are excluded from the IRR
// quantiles.
func Summarize(results []*Result) SweepSummary {
	summary := SweepSummary{Iterations: len(results)}
	if len(results) == 0 {
		return summary
	}

	var irrs, dscrMins []float64
	balloons := 0
	for _, res := range results {
		if res == nil {
			continue
		}
		if res.EquityIRR != nil {
			irrs = append(irrs, *res.EquityIRR)
		}
		if res.DSCRMin != nil {
			dscrMins = append(dscrMins, *res.DSCRMin)
		}
		if res.BalloonRemaining > 1e-6 {
			balloons++
		}
	}

	summary.Solved = len(irrs)
	summary.SuccessRate = float64(len(irrs)) / float64(len(results))
	summary.BalloonRate = float64(balloons) / float64(len(results))

	if len(irrs) > 0 {
		sort.Float64s(irrs)
		mean := stat.Mean(irrs, nil)
		p10 := stat.Quantile(0.10, stat.Empirical, irrs, nil)
		p90 := stat.Quantile(0.90, stat.Empirical, irrs, nil)
		summary.MeanEquityIRR = &mean
		summary.P10EquityIRR = &p10
		summary.P90EquityIRR = &p90
	}
	if len(dscrMins) > 0 {
		mean := stat.Mean(dscrMins, nil)
		summary.MeanDSCRMin = &mean
	}
	return summary
}
