// Command windward evaluates project finance scenarios from YAML parameter
// files and writes the results to an outputs directory.
//
// Usage:
//
//	windward --config scenarios/          # evaluate every scenario in a directory
//	windward --config base.yaml --save-annual --format jsonl
//	windward --config base.yaml --mode sweep --iterations 5000 --seed 42
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/dutchbay/windward/internal/output"
	"github.com/dutchbay/windward/internal/params"
	"github.com/dutchbay/windward/internal/scenario"
	"github.com/dutchbay/windward/pkg/logger"
)

func main() {
	var (
		configPath string
		outputsDir string
		format     string
		mode       string
		saveAnnual bool
		strict     bool
		correlated bool
		iterations int
		seed       uint64
		workers    int
		logLevel   string
	)

	pflag.StringVarP(&configPath, "config", "c", "", "scenario YAML file or directory (required)")
	pflag.StringVarP(&outputsDir, "outputs-dir", "o", "./outputs", "directory for result files")
	pflag.StringVarP(&format, "format", "f", "csv", "annual schedule format: csv or jsonl")
	pflag.StringVarP(&mode, "mode", "m", "evaluate", "evaluate or sweep")
	pflag.BoolVar(&saveAnnual, "save-annual", false, "write per-year schedule files")
	pflag.BoolVar(&strict, "strict", false, "require an annual series or full project assumptions")
	pflag.BoolVar(&correlated, "correlated-rates", false, "draw lending rates from the correlated model (sweep mode)")
	pflag.IntVarP(&iterations, "iterations", "n", 1000, "Monte Carlo iterations (sweep mode)")
	pflag.Uint64Var(&seed, "seed", 1, "random seed (sweep mode)")
	pflag.IntVarP(&workers, "workers", "w", 8, "evaluation worker count")
	pflag.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	pflag.Parse()

	log := logger.New(logger.Config{Level: logLevel, Pretty: true})

	if configPath == "" {
		pflag.Usage()
		os.Exit(2)
	}

	annualFormat, err := output.ParseFormat(format)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid format")
	}

	scenarios, err := loadScenarios(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", configPath).Msg("Failed to load scenarios")
	}
	log.Info().Int("scenarios", len(scenarios)).Str("config", configPath).Msg("Scenarios loaded")

	if strict {
		for _, sc := range scenarios {
			if err := sc.Validate(true); err != nil {
				log.Fatal().Err(err).Str("scenario", sc.Name).Msg("Strict validation failed")
			}
		}
	}

	writer, err := output.NewWriter(outputsDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare outputs directory")
	}

	runner := scenario.NewRunner(log)
	pool := scenario.NewPool(runner, workers)

	var failed bool
	switch mode {
	case "evaluate":
		failed = runEvaluate(pool, scenarios, writer, annualFormat, saveAnnual, log)
	case "sweep":
		cfg := scenario.SweepConfig{
			Iterations:      iterations,
			Seed:            seed,
			CorrelatedRates: correlated,
		}
		failed = runSweep(pool, scenarios, writer, cfg, log)
	default:
		log.Fatal().Str("mode", mode).Msg("Unknown mode, want evaluate or sweep")
	}

	if failed {
		os.Exit(1)
	}
}

func loadScenarios(path string) ([]*params.Scenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return params.LoadDir(path)
	}
	sc, err := params.Load(path)
	if err != nil {
		return nil, err
	}
	return []*params.Scenario{sc}, nil
}

// runEvaluate evaluates every scenario, writes the summary and optional
// per-year schedules, and reports per-scenario outcomes. Returns true when
// any scenario failed.
func runEvaluate(pool *scenario.Pool, scenarios []*params.Scenario, writer *output.Writer, format output.Format, saveAnnual bool, log zerolog.Logger) bool {
	batch := pool.EvaluateBatch(scenarios)

	var results []*scenario.Result
	failed := false
	for _, item := range batch {
		if item.Err != nil {
			log.Error().Err(item.Err).Str("scenario", item.Name).Msg("Scenario failed")
			failed = true
			continue
		}
		results = append(results, item.Result)
		logResult(log, item.Result)

		if saveAnnual {
			path, err := writer.WriteAnnual(item.Result, format)
			if err != nil {
				log.Error().Err(err).Str("scenario", item.Name).Msg("Failed to write annual schedule")
				failed = true
				continue
			}
			log.Info().Str("path", path).Str("scenario", item.Name).Msg("Annual schedule written")
		}
	}

	if len(results) > 0 {
		path, err := writer.WriteSummary(results)
		if err != nil {
			log.Error().Err(err).Msg("Failed to write summary")
			return true
		}
		log.Info().Str("path", path).Int("scenarios", len(results)).Msg("Summary written")
	}
	return failed
}

// runSweep runs a Monte Carlo sweep per scenario and writes each sweep file.
// Returns true when any sweep failed.
func runSweep(pool *scenario.Pool, scenarios []*params.Scenario, writer *output.Writer, cfg scenario.SweepConfig, log zerolog.Logger) bool {
	failed := false
	for _, sc := range scenarios {
		sweep, err := pool.Sweep(sc, cfg)
		if err != nil {
			log.Error().Err(err).Str("scenario", sc.Name).Msg("Sweep failed")
			failed = true
			continue
		}

		event := log.Info().
			Str("scenario", sweep.Scenario).
			Int("iterations", sweep.Summary.Iterations).
			Int("solved", sweep.Summary.Solved).
			Float64("success_rate", sweep.Summary.SuccessRate)
		if sweep.Summary.MeanEquityIRR != nil {
			event = event.Float64("mean_equity_irr", *sweep.Summary.MeanEquityIRR)
		}
		event.Msg("Sweep completed")

		path, err := writer.WriteSweep(sweep)
		if err != nil {
			log.Error().Err(err).Str("scenario", sc.Name).Msg("Failed to write sweep")
			failed = true
			continue
		}
		log.Info().Str("path", path).Msg("Sweep written")
	}
	return failed
}

func logResult(log zerolog.Logger, res *scenario.Result) {
	event := log.Info().
		Str("scenario", res.Name).
		Str("mode", res.Mode).
		Float64("debt_total_usd", res.DebtTotal).
		Float64("npv_usd", res.NPV)
	if res.EquityIRR != nil {
		event = event.Float64("equity_irr", *res.EquityIRR)
	}
	if res.DSCRMin != nil {
		event = event.Float64("dscr_min", *res.DSCRMin)
	}
	if res.BalloonRemaining > 1e-6 {
		event = event.Float64("balloon_usd", res.BalloonRemaining)
	}
	event.Msg("Scenario evaluated")

	for _, note := range res.Notes {
		log.Warn().Str("scenario", res.Name).Msg(note)
	}
}
