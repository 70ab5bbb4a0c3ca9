package params

import (
	"github.com/dutchbay/windward/internal/finance"
)

const defaultLifetimeYears = 20

// Resolved is the fully-typed model input produced from a scenario document.
// Every fallback, unit conversion and mechanism choice has been settled; the
// engine receives plain scalars.
type Resolved struct {
	Name          string
	LifetimeYears int
	CapexUSD      float64
	DiscountRate  float64
	Assumptions   finance.ProjectAssumptions
	DebtTerms     finance.DebtTerms
	Annual        []finance.AnnualRow // explicit series, or built from assumptions
}

// Resolve flattens the scenario into engine inputs. An explicit annual series
// takes precedence over the internal revenue/CFADS buildup.
func (s *Scenario) Resolve() Resolved {
	lifetime := s.Project.Timeline.LifetimeYears
	if lifetime <= 0 {
		lifetime = defaultLifetimeYears
	}

	assumptions := finance.ProjectAssumptions{
		CapacityMW:     s.Project.CapacityMW,
		Degradation:    s.Project.Degradation,
		LifetimeYears:  lifetime,
		FXStart:        s.FX.StartLKRPerUSD,
		FXAnnualDepr:   s.FX.AnnualDepr,
		FXCurve:        s.FX.CurveLKRPerUSD,
		OpexUSDPerYear: s.Opex.USDPerYear,
		OpexLKRPerYear: s.Opex.LKRPerYear,
		OpexUSDPerMWh:  s.Opex.USDPerMWh,
		OpexLKRPerMWh:  s.Opex.LKRPerMWh,
		SSCLRate:       s.Tax.SSCLRate,
		TaxRate:        s.Tax.CorporateRate,
	}
	if s.Project.CapacityFactor != nil {
		assumptions.CapacityFactor = *s.Project.CapacityFactor
	}
	if s.Tariff.USDPerKWh != nil {
		assumptions.TariffUSDPerKWh = *s.Tariff.USDPerKWh
	}
	if s.Tariff.LKRPerKWh != nil {
		assumptions.TariffLKRPerKWh = *s.Tariff.LKRPerKWh
	}

	var annual []finance.AnnualRow
	if len(s.Annual) > 0 {
		annual = make([]finance.AnnualRow, len(s.Annual))
		for i, row := range s.Annual {
			annual[i] = finance.AnnualRow{Year: row.Year, CFADSUSD: row.CFADSUSD, RevenueUSD: row.RevenueUSD}
		}
	} else {
		annual = finance.BuildAnnualRows(assumptions)
	}

	return Resolved{
		Name:          s.Name,
		LifetimeYears: lifetime,
		CapexUSD:      s.capexUSD(),
		DiscountRate:  s.Tax.DiscountRate,
		Assumptions:   assumptions,
		DebtTerms:     s.debtTerms(),
		Annual:        annual,
	}
}

// capexUSD resolves total investment: explicit total first, per-MW scaled by
// capacity otherwise, zero when neither is given.
func (s *Scenario) capexUSD() float64 {
	if s.Capex.USDTotal != nil {
		return *s.Capex.USDTotal
	}
	if s.Capex.USDPerMW != nil {
		return *s.Capex.USDPerMW * s.Project.CapacityMW
	}
	return 0
}

// debtTerms maps the financing block onto the engine's debt structure,
// resolving the reserve mechanism to its tagged variant. The receivables
// guarantee takes precedence over the DSRA when a document carries both.
func (s *Scenario) debtTerms() finance.DebtTerms {
	f := s.Financing

	// An omitted amortization key sculpts when a DSCR target is present and
	// falls back to level annuity otherwise.
	amort := finance.AmortLevel
	switch {
	case f.Amortization == string(finance.AmortSculpted):
		amort = finance.AmortSculpted
	case f.Amortization == "" && f.DSCRTarget != nil && *f.DSCRTarget > 0:
		amort = finance.AmortSculpted
	}

	reserve := finance.Reserve{Kind: finance.ReserveNone}
	switch {
	case f.Reserves.ReceivablesGuaranteeMonths > 0:
		reserve = finance.Reserve{
			Kind:   finance.ReserveGuarantee,
			Months: f.Reserves.ReceivablesGuaranteeMonths,
			FeePct: f.Fees.GuaranteePctOfRevenue,
		}
	case f.Reserves.DSRAMonths > 0:
		reserve = finance.Reserve{Kind: finance.ReserveDSRA, Months: f.Reserves.DSRAMonths}
	}

	terms := finance.DebtTerms{
		TenorYears:   f.TenorYears,
		Amortization: amort,
		DSCRTarget:   f.DSCRTarget,
		MinDSCR:      f.MinDSCR,
		Reserve:      reserve,
		Mix: finance.MixTerms{
			LKRMax:  f.Mix.LKRMax,
			DFIMax:  f.Mix.DFIMax,
			USDMin:  f.Mix.USDCommercialMin,
			LKRRate: f.Rates.LKRNominal,
			USDRate: f.Rates.USDNominal,
			DFIRate: f.Rates.DFINominal,
			YearsIO: f.InterestOnlyYears,
		},
	}
	if f.DebtRatio != nil {
		terms.DebtRatio = *f.DebtRatio
	}
	return terms
}
