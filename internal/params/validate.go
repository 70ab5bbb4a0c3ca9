package params

import (
	"errors"
	"fmt"
)

// bound is an inclusive numeric range for one parameter.
type bound struct {
	name string
	min  float64
	max  float64
}

func (b bound) check(v float64) error {
	if v < b.min || v > b.max {
		return fmt.Errorf("%s outside allowed range [%g, %g]: %g", b.name, b.min, b.max, v)
	}
	return nil
}

// Validate checks scalar bounds and simple composite constraints. In strict
// mode an explicit annual series is required; relaxed mode tolerates its
// absence (the internal buildup fills in). All violations are collected and
// returned together so a caller can report the complete picture.
func (s *Scenario) Validate(strict bool) error {
	var errs []error

	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	if s.Project.CapacityMW != 0 {
		add(bound{"project.capacity_mw", 1, 1000}.check(s.Project.CapacityMW))
	}
	if s.Project.CapacityFactor != nil {
		add(bound{"project.capacity_factor", 0.05, 0.75}.check(*s.Project.CapacityFactor))
	}
	add(bound{"project.degradation", 0, 0.03}.check(s.Project.Degradation))
	if y := s.Project.Timeline.LifetimeYears; y != 0 {
		add(bound{"project.timeline.lifetime_years", 1, 40}.check(float64(y)))
	}
	if s.FX.StartLKRPerUSD != 0 {
		add(bound{"fx.start_lkr_per_usd", 50, 1000}.check(s.FX.StartLKRPerUSD))
	}
	add(bound{"fx.annual_depr", 0, 0.20}.check(s.FX.AnnualDepr))
	if s.Tariff.LKRPerKWh != nil {
		add(bound{"tariff.lkr_per_kwh", 1, 200}.check(*s.Tariff.LKRPerKWh))
	}
	if s.Tariff.USDPerKWh != nil {
		add(bound{"tariff.usd_per_kwh", 0.01, 0.5}.check(*s.Tariff.USDPerKWh))
	}
	add(bound{"tax.sscl_rate", 0, 0.10}.check(s.Tax.SSCLRate))
	add(bound{"tax.corporate_rate", 0, 0.50}.check(s.Tax.CorporateRate))
	add(bound{"tax.discount_rate", 0, 0.50}.check(s.Tax.DiscountRate))

	f := s.Financing
	if f.DebtRatio != nil {
		add(bound{"financing.debt_ratio", 0, 0.95}.check(*f.DebtRatio))
	}
	if f.TenorYears != 0 {
		add(bound{"financing.tenor_years", 1, 30}.check(float64(f.TenorYears)))
	}
	add(bound{"financing.interest_only_years", 0, 5}.check(float64(f.InterestOnlyYears)))
	add(bound{"financing.mix.lkr_max", 0, 1}.check(f.Mix.LKRMax))
	add(bound{"financing.mix.dfi_max", 0, 1}.check(f.Mix.DFIMax))
	add(bound{"financing.mix.usd_commercial_min", 0, 1}.check(f.Mix.USDCommercialMin))
	add(bound{"financing.rates.lkr_nominal", 0, 0.40}.check(f.Rates.LKRNominal))
	add(bound{"financing.rates.usd_nominal", 0, 0.25}.check(f.Rates.USDNominal))
	add(bound{"financing.rates.dfi_nominal", 0, 0.20}.check(f.Rates.DFINominal))
	if f.DSCRTarget != nil {
		add(bound{"financing.dscr_target", 1, 3}.check(*f.DSCRTarget))
	}

	switch f.Amortization {
	case "", "level", "sculpted":
	default:
		errs = append(errs, fmt.Errorf("financing.amortization must be \"level\" or \"sculpted\", got %q", f.Amortization))
	}
	if f.Amortization == "sculpted" && f.DSCRTarget == nil {
		errs = append(errs, errors.New("financing.dscr_target is required for sculpted amortization"))
	}

	for i, row := range s.Annual {
		if row.Year != i+1 {
			errs = append(errs, fmt.Errorf("annual[%d]: year must be %d, got %d", i, i+1, row.Year))
			break
		}
	}

	if strict && len(s.Annual) == 0 {
		// The buildup can only run on real assumptions; with neither those nor
		// an annual series the model would evaluate a stream of zeros.
		if s.Project.CapacityMW == 0 || s.Project.CapacityFactor == nil {
			errs = append(errs, errors.New("strict mode requires an annual series or full project assumptions"))
		}
	}

	return errors.Join(errs...)
}
