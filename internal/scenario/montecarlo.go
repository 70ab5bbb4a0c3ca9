package scenario

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/dutchbay/windward/internal/params"
)

// Sampling bounds for the uncertain inputs. Rates and the debt ratio move
// within lender term-sheet ranges, FX depreciation and capacity factor within
// the historical envelope for the site.
const (
	usdRateLo = 0.065
	usdRateHi = 0.090
	lkrRateLo = 0.075
	lkrRateHi = 0.090

	debtRatioLo = 0.50
	debtRatioHi = 0.80

	fxDeprLo = 0.03
	fxDeprHi = 0.05

	capacityFactorLo = 0.38
	capacityFactorHi = 0.42
)

// Correlated-rate model: USD and LKR nominal rates drawn from a bivariate
// normal so that a tight-dollar draw also pushes the local rate up.
var (
	rateMean = []float64{0.075, 0.0825}
	rateCov  = []float64{
		0.0001, 0.00008,
		0.00008, 0.00015,
	}
)

// SweepConfig controls a Monte Carlo sweep over one base scenario.
type SweepConfig struct {
	Iterations      int    `json:"iterations"`
	Seed            uint64 `json:"seed"`
	CorrelatedRates bool   `json:"correlated_rates"`
}

// Draw is one sampled set of uncertain inputs.
type Draw struct {
	USDRate        float64 `json:"usd_rate"`
	LKRRate        float64 `json:"lkr_rate"`
	DebtRatio      float64 `json:"debt_ratio"`
	FXDepr         float64 `json:"fx_depr"`
	CapacityFactor float64 `json:"capacity_factor"`
}

// Sampler draws uncertain inputs for a sweep. Not safe for concurrent use;
// each sweep owns its sampler.
type Sampler struct {
	uniforms map[string]distuv.Uniform
	rates    *distmv.Normal
}

// NewSampler seeds a sampler. When correlated is true the two lending rates
// come from the bivariate normal instead of independent uniforms.
func NewSampler(seed uint64, correlated bool) (*Sampler, error) {
	src := rand.NewPCG(seed, seed+1)
	s := &Sampler{
		uniforms: map[string]distuv.Uniform{
			"usd_rate":        {Min: usdRateLo, Max: usdRateHi, Src: src},
			"lkr_rate":        {Min: lkrRateLo, Max: lkrRateHi, Src: src},
			"debt_ratio":      {Min: debtRatioLo, Max: debtRatioHi, Src: src},
			"fx_depr":         {Min: fxDeprLo, Max: fxDeprHi, Src: src},
			"capacity_factor": {Min: capacityFactorLo, Max: capacityFactorHi, Src: src},
		},
	}
	if correlated {
		sigma := mat.NewSymDense(2, rateCov)
		normal, ok := distmv.NewNormal(rateMean, sigma, src)
		if !ok {
			return nil, fmt.Errorf("rate covariance matrix is not positive definite")
		}
		s.rates = normal
	}
	return s, nil
}

// Next samples one draw.
func (s *Sampler) Next() Draw {
	d := Draw{
		DebtRatio:      s.uniforms["debt_ratio"].Rand(),
		FXDepr:         s.uniforms["fx_depr"].Rand(),
		CapacityFactor: s.uniforms["capacity_factor"].Rand(),
	}
	if s.rates != nil {
		pair := s.rates.Rand(nil)
		// Clip correlated draws back into the bounded envelope so a fat
		// tail cannot hand the model a negative rate.
		d.USDRate = clip(pair[0], usdRateLo, usdRateHi)
		d.LKRRate = clip(pair[1], lkrRateLo, lkrRateHi)
	} else {
		d.USDRate = s.uniforms["usd_rate"].Rand()
		d.LKRRate = s.uniforms["lkr_rate"].Rand()
	}
	return d
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// applyDraw overlays one draw onto a copy of the base scenario. The base is
// never mutated.
func applyDraw(base *params.Scenario, d Draw) *params.Scenario {
	sc := *base

	financing := sc.Financing
	financing.Rates.USDNominal = d.USDRate
	financing.Rates.LKRNominal = d.LKRRate
	financing.DebtRatio = ptr(d.DebtRatio)
	sc.Financing = financing

	fx := sc.FX
	fx.AnnualDepr = d.FXDepr
	sc.FX = fx

	project := sc.Project
	project.CapacityFactor = ptr(d.CapacityFactor)
	sc.Project = project

	return &sc
}

func ptr(v float64) *float64 { return &v }

const defaultIterations = 1000

// Sweep runs a Monte Carlo sweep over one base scenario: sample draws,
// overlay each onto the base, evaluate across the pool's workers, summarize.
// A draw whose terms the model rejects leaves a nil slot in Results and
// counts against the success rate.
func (p *Pool) Sweep(base *params.Scenario, cfg SweepConfig) (*SweepResult, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = defaultIterations
	}

	sampler, err := NewSampler(cfg.Seed, cfg.CorrelatedRates)
	if err != nil {
		return nil, err
	}

	draws := make([]Draw, cfg.Iterations)
	scenarios := make([]*params.Scenario, cfg.Iterations)
	for i := range draws {
		draws[i] = sampler.Next()
		scenarios[i] = applyDraw(base, draws[i])
	}

	batch := p.EvaluateBatch(scenarios)
	results := make([]*Result, cfg.Iterations)
	for i, item := range batch {
		if item.Err != nil {
			p.runner.log.Warn().
				Int("iteration", i).
				Err(item.Err).
				Msg("Sweep iteration rejected")
			continue
		}
		results[i] = item.Result
	}

	return &SweepResult{
		Scenario: base.Name,
		Config:   cfg,
		Draws:    draws,
		Results:  results,
		Summary:  Summarize(results),
	}, nil
}
