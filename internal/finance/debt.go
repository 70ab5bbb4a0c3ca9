package finance

import (
	"errors"
	"fmt"
	"math"
)

// Amortization selects the principal-repayment strategy.
type Amortization string

const (
	// AmortLevel repays each tranche with an independent level annuity.
	AmortLevel Amortization = "level"
	// AmortSculpted sizes total principal each year so DSCR tracks a target.
	AmortSculpted Amortization = "sculpted"
)

// ErrSculptingTarget is returned when sculpted amortization is requested
// without a DSCR target. Sculpting has no meaningful default target, so this
// aborts the scenario rather than guessing.
var ErrSculptingTarget = errors.New("sculpted amortization requires a dscr target")

// DebtTerms is the fully-resolved debt structure for one scenario. All
// defaulting and nested-key fallbacks are settled at the parameter boundary;
// the engine only sees scalars.
type DebtTerms struct {
	DebtRatio    float64
	TenorYears   int
	Amortization Amortization
	DSCRTarget   *float64 // required for sculpted
	Mix          MixTerms
	Reserve      Reserve
	MinDSCR      *float64 // covenant floor, advisory only
}

// AnnualRow is one externally supplied operating year: cash available for
// debt service plus gross revenue (the guarantee fee base). Year-aligned 1..N.
type AnnualRow struct {
	Year       int
	CFADSUSD   float64
	RevenueUSD float64
}

// DebtResult is the consolidated outcome of one debt-layer application.
// DSCR entries are nil - not zero - for years with no debt service; DSCRMin is
// nil when no year has positive service.
type DebtResult struct {
	Mode        string
	DebtTotal   float64
	EquityTotal float64

	InterestSeries  []float64
	PrincipalSeries []float64
	DebtService     []float64
	DSCRSeries      []*float64
	DSCRMin         *float64

	DSRACashflows []float64
	FeeCashflows  []float64

	BalloonRemaining float64

	// Adjustments is the per-year net cash effect on equity:
	// -debt service + DSRA funding/release - guarantee fees.
	Adjustments []float64

	Notes []string
}

// ApplyDebtLayer derives a consistent multi-tranche debt schedule from the
// CFADS series and returns the consolidated DSCR, debt-service, reserve and
// balloon picture. With a zero debt ratio it degrades to an equity-only result
// with empty series of the right length.
func ApplyDebtLayer(capexUSD float64, lifetime int, annual []AnnualRow, terms DebtTerms) (*DebtResult, error) {
	if terms.DebtRatio <= 0 {
		return equityOnlyResult(capexUSD, lifetime), nil
	}
	if terms.Amortization == AmortSculpted && (terms.DSCRTarget == nil || *terms.DSCRTarget <= 0) {
		return nil, ErrSculptingTarget
	}

	debtTotal := capexUSD * terms.DebtRatio
	equityTotal := capexUSD - debtTotal

	cfads := make([]float64, 0, lifetime)
	revenue := make([]float64, 0, lifetime)
	for i, row := range annual {
		if i >= lifetime {
			break
		}
		cfads = append(cfads, row.CFADSUSD)
		revenue = append(revenue, row.RevenueUSD)
	}
	for len(cfads) < lifetime {
		last := 0.0
		if len(cfads) > 0 {
			last = cfads[len(cfads)-1]
		}
		cfads = append(cfads, last)
		revenue = append(revenue, 0)
	}

	tranches := ResolveMix(debtTotal, terms.Mix)
	ioYears := maxYearsIO(tranches)
	amortYears := terms.TenorYears - ioYears
	if amortYears < 0 {
		amortYears = 0
	}

	var schedules map[string][]DebtRow
	if terms.Amortization == AmortSculpted {
		schedules = buildSculptedSchedules(tranches, amortYears, cfads, *terms.DSCRTarget)
	} else {
		schedules = make(map[string][]DebtRow, len(tranches))
		for _, tr := range tranches {
			schedules[tr.Name] = buildAnnuitySchedule(tr, amortYears)
		}
	}

	totalYears := lifetime
	for _, rows := range schedules {
		if len(rows) > totalYears {
			totalYears = len(rows)
		}
	}

	interest := make([]float64, totalYears)
	principal := make([]float64, totalYears)
	for _, rows := range schedules {
		for y, row := range rows {
			if y < totalYears {
				interest[y] += row.Interest
				principal[y] += row.Principal
			}
		}
	}
	service := make([]float64, totalYears)
	for y := range service {
		service[y] = interest[y] + principal[y]
	}

	dsraCash := make([]float64, totalYears)
	feeCash := make([]float64, totalYears)
	switch terms.Reserve.Kind {
	case ReserveGuarantee:
		feeCash = guaranteeFees(revenue, terms.Reserve.FeePct, totalYears)
	case ReserveDSRA:
		dsraCash = dsraCashflows(service, terms.Reserve.Months)
	}

	dscr := make([]*float64, totalYears)
	var dscrMin *float64
	for y := 0; y < totalYears; y++ {
		if service[y] <= 0 {
			continue
		}
		v := cfadsAt(cfads, y) / service[y]
		dscr[y] = &v
		if dscrMin == nil || v < *dscrMin {
			val := v
			dscrMin = &val
		}
	}

	paid := 0.0
	for _, p := range principal {
		paid += p
	}
	balloon := math.Max(0, debtTotal-paid)

	adjustments := make([]float64, totalYears)
	for y := range adjustments {
		adjustments[y] = -service[y] + dsraCash[y] - feeCash[y]
	}

	var notes []string
	if balloon > 1e-6 {
		notes = append(notes, fmt.Sprintf("Balloon remains at maturity: %.2f USD", balloon))
	}
	if dscrMin != nil && terms.MinDSCR != nil && *dscrMin+1e-9 < *terms.MinDSCR {
		notes = append(notes, fmt.Sprintf("DSCR min %.2f below minimum covenant %.2f.", *dscrMin, *terms.MinDSCR))
	}

	return &DebtResult{
		Mode:             "debt_applied",
		DebtTotal:        debtTotal,
		EquityTotal:      equityTotal,
		InterestSeries:   interest[:lifetime],
		PrincipalSeries:  principal[:lifetime],
		DebtService:      service[:lifetime],
		DSCRSeries:       dscr[:lifetime],
		DSCRMin:          dscrMin,
		DSRACashflows:    dsraCash[:lifetime],
		FeeCashflows:     feeCash[:lifetime],
		BalloonRemaining: balloon,
		Adjustments:      adjustments[:lifetime],
		Notes:            notes,
	}, nil
}

func equityOnlyResult(capexUSD float64, lifetime int) *DebtResult {
	return &DebtResult{
		Mode:            "equity_only",
		EquityTotal:     capexUSD,
		InterestSeries:  make([]float64, lifetime),
		PrincipalSeries: make([]float64, lifetime),
		DebtService:     make([]float64, lifetime),
		DSCRSeries:      make([]*float64, lifetime),
		DSRACashflows:   make([]float64, lifetime),
		FeeCashflows:    make([]float64, lifetime),
		Adjustments:     make([]float64, lifetime),
		Notes:           []string{"No debt terms present; equity-only path."},
	}
}
