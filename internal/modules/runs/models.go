// Package runs stores evaluated model runs: every scenario evaluation and
// Monte Carlo sweep served by the API is persisted here so results can be
// retrieved and compared later.
package runs

import (
	"encoding/json"
	"time"
)

// Run kinds.
const (
	KindEvaluation = "evaluation"
	KindSweep      = "sweep"
)

// Run is one persisted model run. Payload carries the full result document
// as JSON; the scalar columns exist for listing and filtering without
// unmarshaling every payload.
type Run struct {
	ID               string          `json:"id"`
	CreatedAt        time.Time       `json:"created_at"`
	Scenario         string          `json:"scenario"`
	Kind             string          `json:"kind"` // evaluation or sweep
	Mode             string          `json:"mode"` // debt_applied or equity_only, empty for sweeps
	EquityIRR        *float64        `json:"equity_irr,omitempty"`
	DSCRMin          *float64        `json:"dscr_min,omitempty"`
	BalloonRemaining float64         `json:"balloon_remaining"`
	Notes            []string        `json:"notes,omitempty"`
	Payload          json.RawMessage `json:"payload,omitempty"`
}
