package runs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dutchbay/windward/internal/params"
	"github.com/dutchbay/windward/internal/scenario"
)

// Service evaluates scenarios and records the outcome. Persistence failures
// after a successful evaluation are logged but do not fail the request; the
// caller still gets the result.
type Service struct {
	runner *scenario.Runner
	pool   *scenario.Pool
	repo   *Repository
	log    zerolog.Logger
}

// NewService creates the runs service.
func NewService(runner *scenario.Runner, pool *scenario.Pool, repo *Repository, log zerolog.Logger) *Service {
	return &Service{
		runner: runner,
		pool:   pool,
		repo:   repo,
		log:    log.With().Str("service", "runs").Logger(),
	}
}

// Evaluate runs one scenario and persists the result.
func (s *Service) Evaluate(sc *params.Scenario) (*scenario.Result, *Run, error) {
	result, err := s.runner.Evaluate(sc)
	if err != nil {
		return nil, nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	run := &Run{
		ID:               uuid.New().String(),
		CreatedAt:        time.Now().UTC(),
		Scenario:         result.Name,
		Kind:             KindEvaluation,
		Mode:             result.Mode,
		EquityIRR:        result.EquityIRR,
		DSCRMin:          result.DSCRMin,
		BalloonRemaining: result.BalloonRemaining,
		Notes:            result.Notes,
		Payload:          payload,
	}
	s.store(run)
	return result, run, nil
}

// Sweep runs a Monte Carlo sweep and persists its summary. The sweep's
// mean equity IRR stands in for the scalar IRR column.
func (s *Service) Sweep(base *params.Scenario, cfg scenario.SweepConfig) (*scenario.SweepResult, *Run, error) {
	sweep, err := s.pool.Sweep(base, cfg)
	if err != nil {
		return nil, nil, err
	}

	// Per-draw results are too large to store per run; keep draws + summary.
	slim := *sweep
	slim.Results = nil
	payload, err := json.Marshal(&slim)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal sweep: %w", err)
	}

	run := &Run{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Scenario:  sweep.Scenario,
		Kind:      KindSweep,
		EquityIRR: sweep.Summary.MeanEquityIRR,
		DSCRMin:   sweep.Summary.MeanDSCRMin,
		Payload:   payload,
	}
	s.store(run)
	return sweep, run, nil
}

func (s *Service) store(run *Run) {
	if err := s.repo.Save(run); err != nil {
		s.log.Error().Err(err).Str("run_id", run.ID).Msg("Failed to persist run")
	}
}
