package runs

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dutchbay/windward/internal/database"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "runs.db"),
		Name: "runs",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(Schema))

	return NewRepository(db.Conn(), zerolog.Nop())
}

func sampleRun(id string, createdAt time.Time) *Run {
	irr := 0.135
	return &Run{
		ID:               id,
		CreatedAt:        createdAt,
		Scenario:         "base",
		Kind:             KindEvaluation,
		Mode:             "debt_applied",
		EquityIRR:        &irr,
		BalloonRemaining: 1.2e6,
		Notes:            []string{"Balloon remains at maturity: 1200000.00 USD"},
		Payload:          json.RawMessage(`{"name":"base"}`),
	}
}

func TestRepositorySaveAndGet(t *testing.T) {
	repo := testRepo(t)
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.Save(sampleRun("run-1", now)))

	got, err := repo.Get("run-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, "base", got.Scenario)
	assert.Equal(t, KindEvaluation, got.Kind)
	require.NotNil(t, got.EquityIRR)
	assert.InDelta(t, 0.135, *got.EquityIRR, 1e-12)
	assert.Nil(t, got.DSCRMin)
	require.Len(t, got.Notes, 1)
	assert.Contains(t, got.Notes[0], "Balloon remains")
	assert.JSONEq(t, `{"name":"base"}`, string(got.Payload))
}

func TestRepositoryGetMissing(t *testing.T) {
	repo := testRepo(t)

	got, err := repo.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryListNewestFirst(t *testing.T) {
	repo := testRepo(t)
	base := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.Save(sampleRun("run-old", base.Add(-2*time.Hour))))
	require.NoError(t, repo.Save(sampleRun("run-new", base)))
	require.NoError(t, repo.Save(sampleRun("run-mid", base.Add(-time.Hour))))

	list, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "run-new", list[0].ID)
	assert.Equal(t, "run-mid", list[1].ID)
	assert.Equal(t, "run-old", list[2].ID)

	// Listing omits payloads.
	assert.Nil(t, list[0].Payload)

	limited, err := repo.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRepositoryDeleteOlderThan(t *testing.T) {
	repo := testRepo(t)
	now := time.Now().UTC()

	require.NoError(t, repo.Save(sampleRun("fresh", now)))
	require.NoError(t, repo.Save(sampleRun("stale", now.AddDate(0, 0, -120))))

	deleted, err := repo.DeleteOlderThan(now.AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	got, err := repo.Get("stale")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.Get("fresh")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRetentionJob(t *testing.T) {
	repo := testRepo(t)
	now := time.Now().UTC()

	require.NoError(t, repo.Save(sampleRun("fresh", now)))
	require.NoError(t, repo.Save(sampleRun("stale", now.AddDate(0, 0, -40))))

	job := NewRetentionJob(repo, 30, zerolog.Nop())
	assert.Equal(t, "run_retention", job.Name())
	require.NoError(t, job.Run())

	list, err := repo.List(10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "fresh", list[0].ID)
}
