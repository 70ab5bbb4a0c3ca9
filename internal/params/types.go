// Package params defines the scenario parameter documents consumed by the
// model: YAML loading, bounds validation, and one-shot resolution into the
// fully-typed scalars the finance engine works with. All nested-key fallbacks
// and defaults are settled here; nothing downstream reads raw configuration.
package params

// Scenario is one techno-economic scenario document. Optional numeric fields
// are pointers so "absent" stays distinguishable from zero.
type Scenario struct {
	Name      string          `yaml:"name" json:"name"`
	Project   ProjectParams   `yaml:"project" json:"project"`
	Capex     CapexParams     `yaml:"capex" json:"capex"`
	Tariff    TariffParams    `yaml:"tariff" json:"tariff"`
	FX        FXParams        `yaml:"fx" json:"fx"`
	Opex      OpexParams      `yaml:"opex" json:"opex"`
	Tax       TaxParams       `yaml:"tax" json:"tax"`
	Financing FinancingParams `yaml:"financing" json:"financing"`
	Annual    []AnnualEntry   `yaml:"annual" json:"annual"`
}

// ProjectParams describes the physical asset and model horizon.
type ProjectParams struct {
	CapacityMW     float64  `yaml:"capacity_mw" json:"capacity_mw"`
	CapacityFactor *float64 `yaml:"capacity_factor" json:"capacity_factor"`
	Degradation    float64  `yaml:"degradation" json:"degradation"`
	Timeline       Timeline `yaml:"timeline" json:"timeline"`
}

// Timeline holds the model horizon.
type Timeline struct {
	LifetimeYears int `yaml:"lifetime_years" json:"lifetime_years"`
}

// CapexParams sizes total investment: an explicit USD total wins, otherwise
// a per-MW figure scaled by capacity.
type CapexParams struct {
	USDTotal *float64 `yaml:"usd_total" json:"usd_total"`
	USDPerMW *float64 `yaml:"usd_per_mw" json:"usd_per_mw"`
}

// TariffParams quotes the feed-in tariff either directly in USD or in local
// currency, converted through the FX path.
type TariffParams struct {
	USDPerKWh *float64 `yaml:"usd_per_kwh" json:"usd_per_kwh"`
	LKRPerKWh *float64 `yaml:"lkr_per_kwh" json:"lkr_per_kwh"`
}

// FXParams describes the LKR/USD path: an explicit curve or a compounding
// start-plus-depreciation pair.
type FXParams struct {
	StartLKRPerUSD float64   `yaml:"start_lkr_per_usd" json:"start_lkr_per_usd"`
	AnnualDepr     float64   `yaml:"annual_depr" json:"annual_depr"`
	CurveLKRPerUSD []float64 `yaml:"curve_lkr_per_usd" json:"curve_lkr_per_usd"`
}

// OpexParams carries fixed and per-MWh operating cost components; amounts in
// LKR are converted at each year's FX rate. Components sum when several are
// present.
type OpexParams struct {
	USDPerYear float64 `yaml:"usd_per_year" json:"usd_per_year"`
	LKRPerYear float64 `yaml:"lkr_per_year" json:"lkr_per_year"`
	USDPerMWh  float64 `yaml:"usd_per_mwh" json:"usd_per_mwh"`
	LKRPerMWh  float64 `yaml:"lkr_per_mwh" json:"lkr_per_mwh"`
}

// TaxParams holds the flat fiscal assumptions.
type TaxParams struct {
	SSCLRate      float64 `yaml:"sscl_rate" json:"sscl_rate"`
	CorporateRate float64 `yaml:"corporate_rate" json:"corporate_rate"`
	DiscountRate  float64 `yaml:"discount_rate" json:"discount_rate"`
}

// FinancingParams is the debt structure block.
type FinancingParams struct {
	DebtRatio         *float64      `yaml:"debt_ratio" json:"debt_ratio"`
	TenorYears        int           `yaml:"tenor_years" json:"tenor_years"`
	Amortization      string        `yaml:"amortization" json:"amortization"`
	DSCRTarget        *float64      `yaml:"dscr_target" json:"dscr_target"`
	MinDSCR           *float64      `yaml:"min_dscr" json:"min_dscr"`
	InterestOnlyYears int           `yaml:"interest_only_years" json:"interest_only_years"`
	Mix               MixParams     `yaml:"mix" json:"mix"`
	Rates             RateParams    `yaml:"rates" json:"rates"`
	Reserves          ReserveParams `yaml:"reserves" json:"reserves"`
	Fees              FeeParams     `yaml:"fees" json:"fees"`
}

// MixParams caps the local-currency and DFI shares and floors the
// USD-commercial share, all as fractions of total debt.
type MixParams struct {
	LKRMax           float64 `yaml:"lkr_max" json:"lkr_max"`
	DFIMax           float64 `yaml:"dfi_max" json:"dfi_max"`
	USDCommercialMin float64 `yaml:"usd_commercial_min" json:"usd_commercial_min"`
}

// RateParams carries the nominal annual rate per tranche.
type RateParams struct {
	LKRNominal float64 `yaml:"lkr_nominal" json:"lkr_nominal"`
	USDNominal float64 `yaml:"usd_nominal" json:"usd_nominal"`
	DFINominal float64 `yaml:"dfi_nominal" json:"dfi_nominal"`
}

// ReserveParams selects the reserve mechanism. The receivables guarantee and
// the DSRA are mutually exclusive; when both are present the guarantee wins
// and the DSRA is silently disabled.
type ReserveParams struct {
	DSRAMonths                 int `yaml:"dsra_months" json:"dsra_months"`
	ReceivablesGuaranteeMonths int `yaml:"receivables_guarantee_months" json:"receivables_guarantee_months"`
}

// FeeParams holds the receivables-guarantee fee.
type FeeParams struct {
	GuaranteePctOfRevenue float64 `yaml:"guarantee_pct_of_revenue" json:"guarantee_pct_of_revenue"`
}

// AnnualEntry is one externally supplied operating year. When the annual array
// is present it overrides the internal revenue/CFADS buildup.
type AnnualEntry struct {
	Year       int     `yaml:"year" json:"year"`
	CFADSUSD   float64 `yaml:"cfads_usd" json:"cfads_usd"`
	RevenueUSD float64 `yaml:"revenue_usd" json:"revenue_usd"`
}
