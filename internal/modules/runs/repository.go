package runs

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Schema creates the runs table. Applied through database.DB.Migrate at
// startup.
const Schema = `
CREATE TABLE IF NOT EXISTS runs (
    id                TEXT PRIMARY KEY,
    created_at        INTEGER NOT NULL,
    scenario          TEXT NOT NULL,
    kind              TEXT NOT NULL,
    mode              TEXT NOT NULL DEFAULT '',
    equity_irr        REAL,
    dscr_min          REAL,
    balloon_remaining REAL NOT NULL DEFAULT 0,
    notes             TEXT NOT NULL DEFAULT '',
    payload           TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
`

const noteSeparator = "\x1f"

// Repository handles run persistence.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new runs repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "runs").Logger(),
	}
}

// Save persists a run.
func (r *Repository) Save(run *Run) error {
	payload := run.Payload
	if payload == nil {
		payload = json.RawMessage("null")
	}

	_, err := r.db.Exec(`
		INSERT INTO runs (id, created_at, scenario, kind, mode, equity_irr, dscr_min, balloon_remaining, notes, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.CreatedAt.Unix(),
		run.Scenario,
		run.Kind,
		run.Mode,
		run.EquityIRR,
		run.DSCRMin,
		run.BalloonRemaining,
		strings.Join(run.Notes, noteSeparator),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	r.log.Debug().Str("run_id", run.ID).Str("scenario", run.Scenario).Msg("Run saved")
	return nil
}

// Get retrieves a run by ID with its full payload. Returns nil when the run
// doesn't exist (not an error).
func (r *Repository) Get(id string) (*Run, error) {
	row := r.db.QueryRow(`
		SELECT id, created_at, scenario, kind, mode, equity_irr, dscr_min, balloon_remaining, notes, payload
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

// List returns the most recent runs, newest first, without payloads.
func (r *Repository) List(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, created_at, scenario, kind, mode, equity_irr, dscr_min, balloon_remaining, notes, ''
		FROM runs ORDER BY created_at DESC, id LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var result []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		run.Payload = nil
		result = append(result, *run)
	}
	return result, rows.Err()
}

// DeleteOlderThan removes runs created before the cutoff and returns the
// number deleted.
func (r *Repository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Exec("DELETE FROM runs WHERE created_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old runs: %w", err)
	}
	deleted, _ := res.RowsAffected()
	return deleted, nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*Run, error) {
	var (
		run       Run
		createdAt int64
		notes     string
		payload   string
	)
	err := s.Scan(
		&run.ID, &createdAt, &run.Scenario, &run.Kind, &run.Mode,
		&run.EquityIRR, &run.DSCRMin, &run.BalloonRemaining, &notes, &payload,
	)
	if err != nil {
		return nil, err
	}

	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	if notes != "" {
		run.Notes = strings.Split(notes, noteSeparator)
	}
	if payload != "" {
		run.Payload = json.RawMessage(payload)
	}
	return &run, nil
}
