package runs

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RetentionJob purges stored runs older than the retention window. Runs daily
// from the scheduler.
type RetentionJob struct {
	repo          *Repository
	retentionDays int
	log           zerolog.Logger
}

// NewRetentionJob creates a new retention job.
func NewRetentionJob(repo *Repository, retentionDays int, log zerolog.Logger) *RetentionJob {
	return &RetentionJob{
		repo:          repo,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "run_retention").Logger(),
	}
}

// Run executes the purge.
func (j *RetentionJob) Run() error {
	cutoff := time.Now().UTC().AddDate(0, 0, -j.retentionDays)

	deleted, err := j.repo.DeleteOlderThan(cutoff)
	if err != nil {
		return fmt.Errorf("failed to purge runs older than %s: %w", cutoff.Format(time.RFC3339), err)
	}

	if deleted > 0 {
		j.log.Info().
			Int64("deleted", deleted).
			Time("cutoff", cutoff).
			Msg("Old runs purged")
	} else {
		j.log.Debug().Msg("No runs to purge")
	}
	return nil
}

// Name returns the job name for the scheduler
func (j *RetentionJob) Name() string {
	return "run_retention"
}
