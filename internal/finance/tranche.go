package finance

import "math"

// Tranche is an independent slice of total debt principal with its own nominal
// annual rate and interest-only window. The outstanding balance is tracked
// locally during schedule construction and is never shared across scenarios.
type Tranche struct {
	Name      string
	Rate      float64 // nominal annual rate, decimal
	Principal float64 // starting principal, USD
	YearsIO   int     // interest-only years before amortization starts
}

// Canonical tranche names. LKR is the local-currency tranche, USD the
// commercial dollar tranche, DFI the concessional development-finance tranche.
const (
	TrancheLKR = "LKR"
	TrancheUSD = "USD"
	TrancheDFI = "DFI"
)

// MixTerms carries the tranche-mix constraints and rates resolved from the
// scenario financing block. Caps and the USD floor are fractions of total debt.
type MixTerms struct {
	LKRMax float64 // cap on local-currency share
	DFIMax float64 // cap on DFI share
	USDMin float64 // floor on the USD-commercial share

	LKRRate float64
	USDRate float64
	DFIRate float64

	YearsIO int
}

// ResolveMix sizes the three tranches from total debt principal.
//
// Local-currency and DFI caps are applied first, each limited by what remains;
// the USD-commercial tranche takes the remainder. If USD lands below its
// configured floor the shortfall is pulled back from LKR first, then DFI -
// local-currency debt is treated as the most elastic source in the structure.
// Pulls are clamped at zero, so a jointly infeasible cap/floor combination
// resolves to a USD tranche below its nominal minimum rather than failing:
// feasibility policy lives upstream.
func ResolveMix(debtTotal float64, terms MixTerms) []Tranche {
	lkrAmt := math.Min(debtTotal*terms.LKRMax, debtTotal)
	dfiAmt := math.Min(debtTotal*terms.DFIMax, math.Max(0, debtTotal-lkrAmt))
	usdAmt := math.Max(0, debtTotal-lkrAmt-dfiAmt)

	minUSD := debtTotal * terms.USDMin
	if usdAmt < minUSD {
		need := minUSD - usdAmt
		pull := math.Min(need, lkrAmt)
		lkrAmt -= pull
		need -= pull
		if need > 0 {
			pull = math.Min(need, dfiAmt)
			dfiAmt -= pull
		}
		usdAmt = debtTotal - lkrAmt - dfiAmt
	}

	return []Tranche{
		{Name: TrancheLKR, Rate: terms.LKRRate, Principal: lkrAmt, YearsIO: terms.YearsIO},
		{Name: TrancheUSD, Rate: terms.USDRate, Principal: usdAmt, YearsIO: terms.YearsIO},
		{Name: TrancheDFI, Rate: terms.DFIRate, Principal: dfiAmt, YearsIO: terms.YearsIO},
	}
}

// maxYearsIO returns the longest interest-only window across tranches; the
// amortization window opens only once every tranche is past its grace period.
func maxYearsIO(tranches []Tranche) int {
	max := 0
	for _, tr := range tranches {
		if tr.YearsIO > max {
			max = tr.YearsIO
		}
	}
	return max
}
