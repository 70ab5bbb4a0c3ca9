// Package scenario orchestrates model evaluation: single-scenario runs,
// concurrent batch sweeps over scenario sets, and Monte Carlo parameter
// sweeps. Each evaluation is a pure function of its inputs; the only mutable
// state lives inside one schedule-construction call.
package scenario

// AnnualResult is one operating year of the evaluated model, aligned 1..N.
// DSCR is nil for years without debt service.
type AnnualResult struct {
	Year     int      `json:"year"`
	EquityCF float64  `json:"equity_cf"`
	CFADS    float64  `json:"cfads_usd"`
	DSCR     *float64 `json:"dscr"`
}

// Result is the full outcome of one scenario evaluation, handed to the
// reporting layer. Nil-able metrics mean "undefined", never zero: an IRR of
// nil is a cash-flow series with no solvable rate.
type Result struct {
	Name string `json:"name"`
	Mode string `json:"mode"`

	EquityIRR  *float64 `json:"equity_irr"`
	ProjectIRR *float64 `json:"project_irr"`
	NPV        float64  `json:"npv"`

	DSCRMin    *float64   `json:"dscr_min"`
	DSCRSeries []*float64 `json:"dscr_series"`

	DebtTotal        float64   `json:"debt_total"`
	EquityTotal      float64   `json:"equity_total"`
	DebtService      []float64 `json:"debt_service"`
	InterestSeries   []float64 `json:"interest_series"`
	PrincipalSeries  []float64 `json:"principal_series"`
	BalloonRemaining float64   `json:"balloon_remaining"`

	DSRACashflows []float64 `json:"dsra_cashflows"`
	FeeCashflows  []float64 `json:"fees_cashflows"`
	Adjustments   []float64 `json:"adjustments"`

	Notes  []string       `json:"notes"`
	Annual []AnnualResult `json:"annual"`
}
