package finance

import "math"

// ProjectAssumptions is the fully-resolved techno-economic input for the
// operating cash-flow buildup. Tariff and OPEX components may be quoted in
// USD or local currency (LKR); local amounts are converted through the FX path.
type ProjectAssumptions struct {
	CapacityMW     float64
	CapacityFactor float64 // net capacity factor, fraction
	Degradation    float64 // annual multiplicative energy degradation
	LifetimeYears  int

	TariffUSDPerKWh float64 // takes precedence when > 0
	TariffLKRPerKWh float64

	FXStart      float64   // LKR per USD at year 1
	FXAnnualDepr float64   // annual FX depreciation, fraction
	FXCurve      []float64 // explicit per-year LKR/USD path; overrides start/depr

	OpexUSDPerYear float64
	OpexLKRPerYear float64
	OpexUSDPerMWh  float64
	OpexLKRPerMWh  float64

	SSCLRate float64 // surcharge levy on gross revenue
	TaxRate  float64 // flat corporate rate on pre-financing earnings
}

const hoursPerYear = 8760.0

// FXPath expands the FX assumptions into one LKR/USD rate per operating year.
// An explicit curve wins; a short curve is extended with its last value.
func (p ProjectAssumptions) FXPath() []float64 {
	years := p.LifetimeYears
	path := make([]float64, years)
	if len(p.FXCurve) > 0 {
		for y := 0; y < years; y++ {
			if y < len(p.FXCurve) {
				path[y] = p.FXCurve[y]
			} else {
				path[y] = p.FXCurve[len(p.FXCurve)-1]
			}
		}
		return path
	}
	cur := p.FXStart
	for y := 0; y < years; y++ {
		path[y] = cur
		if cur > 0 {
			cur *= 1.0 + p.FXAnnualDepr
		}
	}
	return path
}

// EnergyKWh returns the per-year energy yield in kWh, degrading
// multiplicatively from the P50 base.
func (p ProjectAssumptions) EnergyKWh() []float64 {
	base := p.CapacityMW * 1000.0 * hoursPerYear * p.CapacityFactor
	out := make([]float64, p.LifetimeYears)
	for y := 0; y < p.LifetimeYears; y++ {
		out[y] = math.Max(0, base*math.Pow(1.0-p.Degradation, float64(y)))
	}
	return out
}

// tariffUSD resolves the USD/kWh tariff for a year: a USD tariff is used
// as-is, a local-currency tariff is converted at that year's FX rate.
func (p ProjectAssumptions) tariffUSD(fx float64) float64 {
	if p.TariffUSDPerKWh > 0 {
		return p.TariffUSDPerKWh
	}
	if p.TariffLKRPerKWh > 0 && fx > 0 {
		return p.TariffLKRPerKWh / fx
	}
	return 0
}

// opexUSD sums the fixed and per-MWh OPEX components for a year, converting
// local-currency amounts at that year's FX rate.
func (p ProjectAssumptions) opexUSD(kwh, fx float64) float64 {
	opex := p.OpexUSDPerYear
	if p.OpexLKRPerYear > 0 && fx > 0 {
		opex += p.OpexLKRPerYear / fx
	}
	mwh := kwh / 1000.0
	if p.OpexUSDPerMWh > 0 {
		opex += p.OpexUSDPerMWh * mwh
	}
	if p.OpexLKRPerMWh > 0 && fx > 0 {
		opex += p.OpexLKRPerMWh / fx * mwh
	}
	return opex
}

// BuildAnnualRows produces the operating-year series consumed by the debt
// layer: gross revenue and CFADS per year. CFADS here is pre-financing:
// revenue less OPEX, levy and flat tax on the pre-financing earnings.
func BuildAnnualRows(p ProjectAssumptions) []AnnualRow {
	fx := p.FXPath()
	energy := p.EnergyKWh()
	rows := make([]AnnualRow, p.LifetimeYears)
	for y := 0; y < p.LifetimeYears; y++ {
		revenue := p.tariffUSD(fx[y]) * energy[y]
		opex := p.opexUSD(energy[y], fx[y])
		sscl := revenue * p.SSCLRate
		ebit := revenue - opex - sscl
		tax := math.Max(0, ebit*p.TaxRate)
		rows[y] = AnnualRow{
			Year:       y + 1,
			CFADSUSD:   ebit - tax,
			RevenueUSD: revenue,
		}
	}
	return rows
}
