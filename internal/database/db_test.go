package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T, name string) *DB {
	t.Helper()

	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Name:    name,
		Profile: ProfileStandard,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateAppliesFinanceSchema(t *testing.T) {
	db := openTestDB(t, "finance")

	require.NoError(t, db.Migrate())

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('accounts', 'transactions', 'debt_accounts')`,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t, "cache")

	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate())

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'networth_snapshots'`,
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMigrateSkipsUnknownDatabase(t *testing.T) {
	db := openTestDB(t, "scratch")

	// No schema is registered for this name, so there is nothing to apply.
	require.NoError(t, db.Migrate())

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestMigrateFailsOnUnreadableSchema(t *testing.T) {
	db := openTestDB(t, "finance")

	// A resolvable schemas directory with an unreadable file is a broken
	// tree and must surface, not silently skip the migration.
	err := db.applySchema("no_such_schema.sql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read schema")
}
