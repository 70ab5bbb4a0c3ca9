// Package finance implements the debt-sculpting and cashflow-waterfall engine
// for a project-financed renewable asset: tranche sizing, amortization schedule
// construction (level annuity or DSCR sculpting), reserve accounting, DSCR and
// balloon aggregation, and the IRR/NPV solvers fed by the equity cash flows.
package finance

import "math"

// IRR search bracket and iteration budget. The bracket spans -99.99% to +500%,
// which covers every economically meaningful periodic rate for an annual model.
const (
	irrBracketLo = -0.9999
	irrBracketHi = 5.0
	irrMaxIter   = 200
	irrTolerance = 1e-10
)

// NPV computes the net present value of a cash-flow series at a periodic rate:
//
//	NPV(r) = sum_t CF[t] / (1+r)^t
//
// The series is indexed from t=0. Rates at or below -100% are clamped just
// above -1 to keep the discount factor finite.
func NPV(rate float64, cashflows []float64) float64 {
	r := rate
	if r <= -1.0 {
		r = -0.999999
	}
	total := 0.0
	for t, cf := range cashflows {
		total += cf / math.Pow(1.0+r, float64(t))
	}
	return total
}

// IRR solves NPV(r) = 0 by bisection over a fixed bracket and returns the
// periodic rate as a fraction (0.18 = 18%).
//
// The second return value is false when the series has no bracketed root:
// an all-inflow or all-outflow series produces a one-signed NPV curve and has
// no meaningful IRR. That outcome is distinct from a zero rate - an all-zero
// series returns (0, true).
func IRR(cashflows []float64) (float64, bool) {
	if len(cashflows) == 0 {
		return 0, false
	}

	allZero := true
	for _, cf := range cashflows {
		if math.Abs(cf) > 1e-12 {
			allZero = false
			break
		}
	}
	if allZero {
		return 0, true
	}

	lo, hi := irrBracketLo, irrBracketHi
	fLo := NPV(lo, cashflows)
	fHi := NPV(hi, cashflows)

	if fLo == 0 {
		return lo, true
	}
	if fHi == 0 {
		return hi, true
	}
	if (fLo > 0) == (fHi > 0) {
		// No sign change across the bracket: not solvable.
		return 0, false
	}

	for i := 0; i < irrMaxIter; i++ {
		mid := (lo + hi) / 2.0
		fMid := NPV(mid, cashflows)
		if math.Abs(fMid) < irrTolerance {
			return mid, true
		}
		if (fLo < 0) != (fMid < 0) {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}

	// Bisection halves the interval every step, so after the full budget the
	// midpoint is accurate far beyond float precision for any sane bracket.
	return (lo + hi) / 2.0, true
}

// BuildProjectCashflows assembles the pre-financing cash-flow series:
// [-capex] followed by CFADS for each operating year.
func BuildProjectCashflows(capexUSD float64, cfads []float64) []float64 {
	out := make([]float64, 0, len(cfads)+1)
	out = append(out, -capexUSD)
	out = append(out, cfads...)
	return out
}

// BuildEquityCashflows assembles the equity cash-flow series handed to IRR:
// [-equity injection at t0] followed by the per-year equity cash flow.
// A residual balloon is subtracted from the final period - never distributed
// earlier - so the shortfall lands where it is actually due.
func BuildEquityCashflows(equityT0 float64, annual []float64, balloonRemaining float64) []float64 {
	out := make([]float64, 0, len(annual)+1)
	out = append(out, -equityT0)
	out = append(out, annual...)
	if balloonRemaining > 1e-9 && len(out) > 1 {
		out[len(out)-1] -= balloonRemaining
	}
	return out
}
