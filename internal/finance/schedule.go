package finance

import "math"

// DebtRow is one year of one tranche's schedule. Debt service is always the
// exact sum of interest and principal; the Service accessor keeps that
// identity definitional rather than stored.
type DebtRow struct {
	Interest  float64
	Principal float64
}

// Service returns the total debt service for the row.
func (r DebtRow) Service() float64 {
	return r.Interest + r.Principal
}

// annuityPayment computes the constant annual payment that fully amortizes pv
// over n years at the given rate. At a zero rate the annuity degenerates to
// straight-line repayment.
func annuityPayment(rate float64, n int, pv float64) float64 {
	if n <= 0 {
		return 0
	}
	if rate == 0 {
		return pv / float64(n)
	}
	return pv * rate / (1 - math.Pow(1+rate, -float64(n)))
}

// buildAnnuitySchedule builds one tranche's schedule independently: YearsIO
// interest-only rows, then amortYears rows of a level annuity. The principal
// component is clipped to [0, outstanding balance] so the final year cannot
// overshoot into a negative balance.
func buildAnnuitySchedule(tr Tranche, amortYears int) []DebtRow {
	rows := make([]DebtRow, 0, tr.YearsIO+amortYears)
	bal := tr.Principal

	for y := 0; y < tr.YearsIO; y++ {
		rows = append(rows, DebtRow{Interest: bal * tr.Rate})
	}

	if amortYears > 0 {
		pmt := annuityPayment(tr.Rate, amortYears, bal)
		for y := 0; y < amortYears; y++ {
			interest := bal * tr.Rate
			principal := math.Max(0, pmt-interest)
			principal = math.Min(principal, bal)
			bal -= principal
			rows = append(rows, DebtRow{Interest: interest, Principal: principal})
		}
	}
	return rows
}

// buildSculptedSchedules builds all tranche schedules jointly so that total
// debt service tracks CFADS / dscrTarget each amortizing year.
//
// Interest accrues on each tranche's current balance at its own rate. The
// remaining principal budget (target service minus total interest, floored at
// zero so negative CFADS never produces negative service) is allocated
// pro-rata by current outstanding balance - not original principal - and
// capped at each tranche's remaining balance. When the CFADS series is shorter
// than the schedule the last observed value carries forward.
//
// The returned map is keyed by tranche name; every schedule has the same
// length maxYearsIO(tranches) + amortYears.
func buildSculptedSchedules(tranches []Tranche, amortYears int, cfads []float64, dscrTarget float64) map[string][]DebtRow {
	balances := make(map[string]float64, len(tranches))
	schedules := make(map[string][]DebtRow, len(tranches))
	for _, tr := range tranches {
		balances[tr.Name] = tr.Principal
		schedules[tr.Name] = make([]DebtRow, 0, maxYearsIO(tranches)+amortYears)
	}

	ioYears := maxYearsIO(tranches)
	year := 0

	for y := 0; y < ioYears; y++ {
		for _, tr := range tranches {
			interest := balances[tr.Name] * tr.Rate
			schedules[tr.Name] = append(schedules[tr.Name], DebtRow{Interest: interest})
		}
		year++
	}

	for y := 0; y < amortYears; y++ {
		cf := cfadsAt(cfads, year)
		targetService := math.Max(0, cf/dscrTarget)

		totalInterest := 0.0
		interestByName := make(map[string]float64, len(tranches))
		for _, tr := range tranches {
			interest := balances[tr.Name] * tr.Rate
			interestByName[tr.Name] = interest
			totalInterest += interest
		}
		principalTotal := math.Max(0, targetService-totalInterest)

		totalBal := 0.0
		for _, b := range balances {
			totalBal += b
		}

		for _, tr := range tranches {
			bal := balances[tr.Name]
			prorata := 0.0
			if totalBal > 0 {
				prorata = bal / totalBal
			}
			principal := math.Min(bal, principalTotal*prorata)
			balances[tr.Name] = math.Max(0, bal-principal)
			schedules[tr.Name] = append(schedules[tr.Name], DebtRow{
				Interest:  interestByName[tr.Name],
				Principal: principal,
			})
		}
		year++
	}

	return schedules
}

// cfadsAt reads the CFADS series with last-value extension beyond its end.
func cfadsAt(cfads []float64, year int) float64 {
	if len(cfads) == 0 {
		return 0
	}
	if year < len(cfads) {
		return cfads[year]
	}
	return cfads[len(cfads)-1]
}
