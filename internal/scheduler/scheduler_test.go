package scheduler

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name string
	err  error
	runs int
}

func (j *stubJob) Run() error {
	j.runs++
	return j.err
}

func (j *stubJob) Name() string { return j.name }

func TestAddJobRejectsBadSchedule(t *testing.T) {
	s := New(zerolog.Nop())
	err := s.AddJob("not a cron expression", &stubJob{name: "noop"})
	require.Error(t, err)
}

func TestRunNowReturnsJobError(t *testing.T) {
	s := New(zerolog.Nop())
	boom := errors.New("purge failed")
	job := &stubJob{name: "run_retention", err: boom}
	assert.ErrorIs(t, s.RunNow(job), boom)
	assert.Equal(t, 1, job.runs)
}

func TestStartStop(t *testing.T) {
	s := New(zerolog.Nop())
	require.NoError(t, s.AddJob("0 0 3 * * *", &stubJob{name: "run_retention"}))
	s.Start()
	s.Stop()
}
