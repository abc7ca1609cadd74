package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelschaepers/coolsulting-testing-area/internal/config"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/database"
)

func TestMigrate_SQLite(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "nested", "quotes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db, config.BackendSQLite))
	require.NoError(t, database.Migrate(db, config.BackendSQLite), "second run is a no-op")

	v, dirty, err := database.Version(db, config.BackendSQLite)
	require.NoError(t, err)
	assert.Equal(t, uint(1), v)
	assert.False(t, dirty)

	for _, table := range []string{"quotes", "quote_lines", "product_events", "quote_sequences"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	require.NoError(t, db.Ping(), "migrator must not close the handle")
}

func TestMigrateDown_SQLite(t *testing.T) {
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "quotes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db, config.BackendSQLite))
	require.NoError(t, database.MigrateDown(db, config.BackendSQLite))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'quotes'`).Scan(&n))
	assert.Zero(t, n)
}
