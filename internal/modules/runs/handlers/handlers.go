// Package handlers provides HTTP handlers for scenario evaluation and stored
// run retrieval.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/dutchbay/windward/internal/modules/runs"
	"github.com/dutchbay/windward/internal/params"
	"github.com/dutchbay/windward/internal/scenario"
)

// Handler provides HTTP handlers for evaluation and run endpoints
type Handler struct {
	service *runs.Service
	repo    *runs.Repository
	log     zerolog.Logger
}

// NewHandler creates a new runs handler
func NewHandler(service *runs.Service, repo *runs.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		repo:    repo,
		log:     log.With().Str("handler", "runs").Logger(),
	}
}

// evaluateRequest is the body for POST /api/scenarios/evaluate.
type evaluateRequest struct {
	Scenario params.Scenario `json:"scenario"`
}

// evaluateResponse wraps a result with its stored run ID.
type evaluateResponse struct {
	RunID  string           `json:"run_id"`
	Result *scenario.Result `json:"result"`
}

// HandleEvaluate handles POST /api/scenarios/evaluate
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, run, err := h.service.Evaluate(&req.Scenario)
	if err != nil {
		h.log.Warn().Err(err).Str("scenario", req.Scenario.Name).Msg("Evaluation rejected")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, h.log, evaluateResponse{RunID: run.ID, Result: result})
}

// sweepRequest is the body for POST /api/scenarios/sweep.
type sweepRequest struct {
	Scenario params.Scenario      `json:"scenario"`
	Config   scenario.SweepConfig `json:"config"`
}

// sweepResponse wraps a sweep with its stored run ID. Per-draw results are
// omitted from the response; clients work from the summary.
type sweepResponse struct {
	RunID    string                `json:"run_id"`
	Scenario string                `json:"scenario"`
	Config   scenario.SweepConfig  `json:"config"`
	Summary  scenario.SweepSummary `json:"summary"`
}

// HandleSweep handles POST /api/scenarios/sweep
func (h *Handler) HandleSweep(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sweep, run, err := h.service.Sweep(&req.Scenario, req.Config)
	if err != nil {
		h.log.Warn().Err(err).Str("scenario", req.Scenario.Name).Msg("Sweep rejected")
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	writeJSON(w, h.log, sweepResponse{
		RunID:    run.ID,
		Scenario: sweep.Scenario,
		Config:   sweep.Config,
		Summary:  sweep.Summary,
	})
}

// HandleList handles GET /api/runs
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	list, err := h.repo.List(limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list runs")
		http.Error(w, "Failed to list runs", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []runs.Run{}
	}

	writeJSON(w, h.log, list)
}

// HandleGet handles GET /api/runs/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	run, err := h.repo.Get(id)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", id).Msg("Failed to get run")
		http.Error(w, "Failed to get run", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	writeJSON(w, h.log, run)
}

func writeJSON(w http.ResponseWriter, log zerolog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
