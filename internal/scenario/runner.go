package scenario

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/dutchbay/windward/internal/finance"
	"github.com/dutchbay/windward/internal/params"
)

// Runner evaluates scenarios. It holds no cross-scenario state, so a single
// Runner is safe to share across concurrent evaluations.
type Runner struct {
	log zerolog.Logger
}

// NewRunner creates a scenario runner.
func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{log: log.With().Str("component", "scenario_runner").Logger()}
}

// Evaluate runs the full model for one scenario: resolve parameters, apply
// the debt layer, assemble equity cash flows and solve the return metrics.
// Configuration errors (invalid bounds, sculpting without a target) fail only
// this scenario.
func (r *Runner) Evaluate(sc *params.Scenario) (*Result, error) {
	if err := sc.Validate(false); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	resolved := sc.Resolve()

	debt, err := finance.ApplyDebtLayer(resolved.CapexUSD, resolved.LifetimeYears, resolved.Annual, resolved.DebtTerms)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
	}

	// Shorter explicit series carry their last value forward, the same
	// convention the debt layer applies when sizing service.
	cfads := make([]float64, resolved.LifetimeYears)
	for y := 0; y < resolved.LifetimeYears; y++ {
		switch {
		case y < len(resolved.Annual):
			cfads[y] = resolved.Annual[y].CFADSUSD
		case len(resolved.Annual) > 0:
			cfads[y] = resolved.Annual[len(resolved.Annual)-1].CFADSUSD
		}
	}

	// Per-year equity cash flow: CFADS net of debt service, reserve movements
	// and guarantee fees. The adjustments series already nets all three.
	annualEquity := make([]float64, resolved.LifetimeYears)
	for y := 0; y < resolved.LifetimeYears; y++ {
		annualEquity[y] = cfads[y] + debt.Adjustments[y]
	}

	equityT0 := resolved.CapexUSD - debt.DebtTotal
	equitySeries := finance.BuildEquityCashflows(equityT0, annualEquity, debt.BalloonRemaining)
	projectSeries := finance.BuildProjectCashflows(resolved.CapexUSD, cfads)

	result := &Result{
		Name:             resolved.Name,
		Mode:             debt.Mode,
		NPV:              finance.NPV(resolved.DiscountRate, equitySeries),
		DSCRMin:          debt.DSCRMin,
		DSCRSeries:       debt.DSCRSeries,
		DebtTotal:        debt.DebtTotal,
		EquityTotal:      debt.EquityTotal,
		DebtService:      debt.DebtService,
		InterestSeries:   debt.InterestSeries,
		PrincipalSeries:  debt.PrincipalSeries,
		BalloonRemaining: debt.BalloonRemaining,
		DSRACashflows:    debt.DSRACashflows,
		FeeCashflows:     debt.FeeCashflows,
		Adjustments:      debt.Adjustments,
		Notes:            debt.Notes,
	}

	if rate, ok := finance.IRR(equitySeries); ok {
		result.EquityIRR = &rate
	}
	if rate, ok := finance.IRR(projectSeries); ok {
		result.ProjectIRR = &rate
	}

	result.Annual = make([]AnnualResult, resolved.LifetimeYears)
	for y := 0; y < resolved.LifetimeYears; y++ {
		result.Annual[y] = AnnualResult{
			Year:     y + 1,
			EquityCF: annualEquity[y],
			CFADS:    cfads[y],
			DSCR:     debt.DSCRSeries[y],
		}
	}

	r.log.Debug().
		Str("scenario", resolved.Name).
		Str("mode", debt.Mode).
		Float64("balloon", debt.BalloonRemaining).
		Msg("Scenario evaluated")

	return result, nil
}
