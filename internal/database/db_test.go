package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE IF NOT EXISTS items (
    id    TEXT PRIMARY KEY,
    value REAL NOT NULL
);
`

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(Config{
		Path: filepath.Join(t.TempDir(), "test.db"),
		Name: "test",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewDefaultsToStandardProfile(t *testing.T) {
	db := testDB(t)
	assert.Equal(t, ProfileStandard, db.Profile())
	assert.Equal(t, "test", db.Name())
	assert.True(t, filepath.IsAbs(db.Path()))
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Migrate(testSchema))
	require.NoError(t, db.Migrate(testSchema))

	_, err := db.Conn().Exec("INSERT INTO items (id, value) VALUES ('a', 1.5)")
	require.NoError(t, err)
}

func TestWithTransactionCommits(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Migrate(testSchema))

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO items (id, value) VALUES ('a', 1.0)")
		return err
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM items").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestWithTransactionRollsBackOnError(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Migrate(testSchema))

	sentinel := errors.New("boom")
	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		if _, err := tx.Exec("INSERT INTO items (id, value) VALUES ('a', 1.0)"); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	var count int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM items").Scan(&count))
	assert.Zero(t, count)
}

func TestWithTransactionRecoversPanic(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Migrate(testSchema))

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		panic("unexpected")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transaction panicked")
}
