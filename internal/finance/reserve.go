package finance

import "math"

// ReserveKind selects the reserve mechanism attached to the debt structure.
// The two funded mechanisms are mutually exclusive by construction: a scenario
// resolves to exactly one variant at the parameter boundary, so enabling one
// can never leak cash effects from the other.
type ReserveKind int

const (
	// ReserveNone - no reserve account and no guarantee fee.
	ReserveNone ReserveKind = iota
	// ReserveDSRA - a debt-service reserve account funded ahead of need and
	// released at the tail.
	ReserveDSRA
	// ReserveGuarantee - a receivables guarantee charged as a percentage of
	// gross revenue instead of holding a cash buffer.
	ReserveGuarantee
)

// Reserve is the resolved reserve/guarantee configuration.
type Reserve struct {
	Kind   ReserveKind
	Months int     // DSRA buffer size, or guarantee coverage window, in months
	FeePct float64 // guarantee fee as a fraction of gross revenue
}

// dsraCashflows computes the per-year equity cash effect of the reserve
// account. The target buffer in year y covers the next Months of debt service,
// approximated on the annual grid as the sum of months forward entries of
// service/12. Each year the delta between target and the running balance is
// either a funding outflow (negative) or a release inflow (positive).
//
// The walk is strictly sequential: the buffer is a running balance, so year
// order matters and the rows cannot be computed independently.
func dsraCashflows(debtService []float64, months int) []float64 {
	out := make([]float64, len(debtService))
	if months <= 0 || len(debtService) == 0 {
		return out
	}

	monthly := make([]float64, len(debtService))
	for y, s := range debtService {
		monthly[y] = s / 12.0
	}

	buf := 0.0
	for y := range debtService {
		end := y + months
		if end > len(monthly) {
			end = len(monthly)
		}
		target := 0.0
		for _, m := range monthly[y:end] {
			target += m
		}

		delta := target - buf
		if math.Abs(delta) < 1e-9 {
			continue
		}
		if delta > 0 {
			out[y] -= delta // funding: cash out of equity
		} else {
			out[y] += -delta // release: cash back to equity
		}
		buf += delta
	}
	return out
}

// guaranteeFees computes the flat receivables-guarantee fee stream: feePct of
// gross revenue in every year the guarantee is active. Purely a cash drag -
// no balance state, independent of debt-service timing.
func guaranteeFees(revenue []float64, feePct float64, years int) []float64 {
	out := make([]float64, years)
	if feePct <= 0 {
		return out
	}
	for y := 0; y < years && y < len(revenue); y++ {
		out[y] = revenue[y] * feePct
	}
	return out
}
