package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableCount(t *testing.T, q interface {
	Get(dest any, query string, args ...any) error
}, name string) int {
	t.Helper()
	var n int
	require.NoError(t, q.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name))
	return n
}

func TestMigrations(t *testing.T) {
	database, err := InitDB(context.Background(), DriverSQLite, "file::memory:")
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, MigrateUp(database, DriverSQLite, "../../migrations"))
	// Running again is a no-op
	require.NoError(t, MigrateUp(database, DriverSQLite, "../../migrations"))

	for _, table := range []string{"users", "sessions", "tournaments"} {
		assert.Equal(t, 1, tableCount(t, database, table), table)
	}

	require.NoError(t, MigrateDown(database, DriverSQLite, "../../migrations", 1))
	assert.Equal(t, 0, tableCount(t, database, "tournaments"))
	assert.Equal(t, 1, tableCount(t, database, "users"))

	require.NoError(t, MigrateDown(database, DriverSQLite, "../../migrations", 0))
	assert.Equal(t, 0, tableCount(t, database, "users"))
}

func TestUnsupportedDriver(t *testing.T) {
	database, err := InitDB(context.Background(), DriverSQLite, "file::memory:")
	require.NoError(t, err)
	defer database.Close()

	assert.Error(t, MigrateUp(database, "mysql", "../../migrations"))
}

func TestInitDBUnknownDriver(t *testing.T) {
	_, err := InitDB(context.Background(), "nope", "whatever")
	assert.Error(t, err)
}
