package scenario

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dutchbay/windward/internal/params"
)

func testRunner() *Runner {
	return NewRunner(zerolog.Nop())
}

// baseScenario is a 12-year project with an explicit annual series and a
// single-tranche level loan: 100M capex, 70% debt at 8% over 10 years.
func baseScenario() *params.Scenario {
	capex := 100e6
	ratio := 0.7

	annual := make([]params.AnnualEntry, 12)
	for i := range annual {
		annual[i] = params.AnnualEntry{Year: i + 1, CFADSUSD: 14e6, RevenueUSD: 18e6}
	}

	return &params.Scenario{
		Name:    "base",
		Project: params.ProjectParams{Timeline: params.Timeline{LifetimeYears: 12}},
		Capex:   params.CapexParams{USDTotal: &capex},
		Tax:     params.TaxParams{DiscountRate: 0.10},
		Financing: params.FinancingParams{
			DebtRatio:    &ratio,
			TenorYears:   10,
			Amortization: "level",
			Rates:        params.RateParams{LKRNominal: 0.08, USDNominal: 0.08, DFINominal: 0.08},
		},
		Annual: annual,
	}
}

func TestEvaluateLevelDebt(t *testing.T) {
	res, err := testRunner().Evaluate(baseScenario())
	require.NoError(t, err)

	assert.Equal(t, "debt_applied", res.Mode)
	assert.InDelta(t, 70e6, res.DebtTotal, 1)
	assert.InDelta(t, 30e6, res.EquityTotal, 1)
	assert.Len(t, res.Annual, 12)

	// 70M at 8% over 10 years is a 10.432M annuity, so DSCR on 14M of
	// CFADS sits near 1.342 through the tenor and is undefined after it.
	require.NotNil(t, res.DSCRSeries[0])
	assert.InDelta(t, 1.342, *res.DSCRSeries[0], 0.001)
	assert.Nil(t, res.DSCRSeries[10])
	assert.Nil(t, res.DSCRSeries[11])

	require.NotNil(t, res.EquityIRR)
	assert.Greater(t, *res.EquityIRR, 0.0)
	require.NotNil(t, res.ProjectIRR)
	assert.InDelta(t, 0.0, res.BalloonRemaining, 1e-3)

	// Years inside the tenor net debt service out of CFADS.
	assert.InDelta(t, 14e6-10.432e6, res.Annual[0].EquityCF, 5e3)
	assert.InDelta(t, 14e6, res.Annual[11].EquityCF, 1)
}

func TestEvaluateEquityOnly(t *testing.T) {
	sc := baseScenario()
	sc.Financing = params.FinancingParams{}

	res, err := testRunner().Evaluate(sc)
	require.NoError(t, err)

	assert.Equal(t, "equity_only", res.Mode)
	assert.Zero(t, res.DebtTotal)

	// With no debt the equity series is the project series, so the two
	// IRRs coincide.
	require.NotNil(t, res.EquityIRR)
	require.NotNil(t, res.ProjectIRR)
	assert.InDelta(t, *res.ProjectIRR, *res.EquityIRR, 1e-9)
}

func TestEvaluateRejectsInvalidScenario(t *testing.T) {
	sc := baseScenario()
	bad := 1.5
	sc.Financing.DebtRatio = &bad

	_, err := testRunner().Evaluate(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "debt_ratio")
}

func TestEvaluateExtendsShortAnnualSeries(t *testing.T) {
	sc := baseScenario()
	sc.Annual = []params.AnnualEntry{
		{Year: 1, CFADSUSD: 10e6, RevenueUSD: 12e6},
		{Year: 2, CFADSUSD: 11e6, RevenueUSD: 13e6},
	}

	res, err := testRunner().Evaluate(sc)
	require.NoError(t, err)

	require.Len(t, res.Annual, 12)
	assert.InDelta(t, 10e6, res.Annual[0].CFADS, 1)
	assert.InDelta(t, 11e6, res.Annual[11].CFADS, 1)
}

func TestSamplerDeterministic(t *testing.T) {
	a, err := NewSampler(42, false)
	require.NoError(t, err)
	b, err := NewSampler(42, false)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestSamplerBounds(t *testing.T) {
	for _, correlated := range []bool{false, true} {
		s, err := NewSampler(7, correlated)
		require.NoError(t, err)

		for i := 0; i < 200; i++ {
			d := s.Next()
			assert.GreaterOrEqual(t, d.USDRate, usdRateLo)
			assert.LessOrEqual(t, d.USDRate, usdRateHi)
			assert.GreaterOrEqual(t, d.LKRRate, lkrRateLo)
			assert.LessOrEqual(t, d.LKRRate, lkrRateHi)
			assert.GreaterOrEqual(t, d.DebtRatio, debtRatioLo)
			assert.LessOrEqual(t, d.DebtRatio, debtRatioHi)
			assert.GreaterOrEqual(t, d.FXDepr, fxDeprLo)
			assert.LessOrEqual(t, d.FXDepr, fxDeprHi)
			assert.GreaterOrEqual(t, d.CapacityFactor, capacityFactorLo)
			assert.LessOrEqual(t, d.CapacityFactor, capacityFactorHi)
		}
	}
}

func TestApplyDrawLeavesBaseUntouched(t *testing.T) {
	base := baseScenario()
	draw := Draw{USDRate: 0.07, LKRRate: 0.08, DebtRatio: 0.6, FXDepr: 0.04, CapacityFactor: 0.40}

	sc := applyDraw(base, draw)

	assert.Equal(t, 0.07, sc.Financing.Rates.USDNominal)
	require.NotNil(t, sc.Financing.DebtRatio)
	assert.Equal(t, 0.6, *sc.Financing.DebtRatio)
	assert.Equal(t, 0.04, sc.FX.AnnualDepr)
	require.NotNil(t, sc.Project.CapacityFactor)
	assert.Equal(t, 0.40, *sc.Project.CapacityFactor)

	assert.Equal(t, 0.08, base.Financing.Rates.USDNominal)
	assert.Equal(t, 0.7, *base.Financing.DebtRatio)
	assert.Nil(t, base.Project.CapacityFactor)
}

func TestPoolPreservesOrderAndCapturesErrors(t *testing.T) {
	good1 := baseScenario()
	good1.Name = "first"
	bad := baseScenario()
	bad.Name = "broken"
	badRatio := 2.0
	bad.Financing.DebtRatio = &badRatio
	good2 := baseScenario()
	good2.Name = "third"

	pool := NewPool(testRunner(), 4)
	results := pool.EvaluateBatch([]*params.Scenario{good1, bad, good2})

	require.Len(t, results, 3)
	assert.Equal(t, "first", results[0].Name)
	assert.NoError(t, results[0].Err)
	require.NotNil(t, results[0].Result)

	assert.Equal(t, "broken", results[1].Name)
	assert.Error(t, results[1].Err)
	assert.Nil(t, results[1].Result)

	assert.Equal(t, "third", results[2].Name)
	assert.NoError(t, results[2].Err)
}

func TestSummarize(t *testing.T) {
	irr := func(v float64) *float64 { return &v }
	results := []*Result{
		{EquityIRR: irr(0.10), DSCRMin: irr(1.2)},
		{EquityIRR: irr(0.14), DSCRMin: irr(1.5), BalloonRemaining: 2e6},
		{EquityIRR: nil},
		nil,
	}

	summary := Summarize(results)
	assert.Equal(t, 4, summary.Iterations)
	assert.Equal(t, 2, summary.Solved)
	assert.InDelta(t, 0.5, summary.SuccessRate, 1e-12)
	assert.InDelta(t, 0.25, summary.BalloonRate, 1e-12)
	require.NotNil(t, summary.MeanEquityIRR)
	assert.InDelta(t, 0.12, *summary.MeanEquityIRR, 1e-12)
	require.NotNil(t, summary.MeanDSCRMin)
	assert.InDelta(t, 1.35, *summary.MeanDSCRMin, 1e-12)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)
	assert.Zero(t, summary.Iterations)
	assert.Nil(t, summary.MeanEquityIRR)
}

func TestSweep(t *testing.T) {
	pool := NewPool(testRunner(), 4)

	sweep, err := pool.Sweep(baseScenario(), SweepConfig{Iterations: 25, Seed: 11})
	require.NoError(t, err)

	assert.Equal(t, "base", sweep.Scenario)
	assert.Len(t, sweep.Draws, 25)
	assert.Len(t, sweep.Results, 25)
	assert.Equal(t, 25, sweep.Summary.Iterations)
	// Every draw sits inside the validation bounds, so all should solve.
	assert.Equal(t, 25, sweep.Summary.Solved)
	require.NotNil(t, sweep.Summary.P10EquityIRR)
	require.NotNil(t, sweep.Summary.P90EquityIRR)
	assert.LessOrEqual(t, *sweep.Summary.P10EquityIRR, *sweep.Summary.P90EquityIRR)
}

func TestSweepCorrelatedRatesReproducible(t *testing.T) {
	pool := NewPool(testRunner(), 2)
	cfg := SweepConfig{Iterations: 10, Seed: 3, CorrelatedRates: true}

	a, err := pool.Sweep(baseScenario(), cfg)
	require.NoError(t, err)
	b, err := pool.Sweep(baseScenario(), cfg)
	require.NoError(t, err)

	assert.Equal(t, a.Draws, b.Draws)
	require.NotNil(t, a.Summary.MeanEquityIRR)
	require.NotNil(t, b.Summary.MeanEquityIRR)
	assert.InDelta(t, *a.Summary.MeanEquityIRR, *b.Summary.MeanEquityIRR, 1e-12)
}
