// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-tracker-api/internal/database"
	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory SQLite database that is closed when
// the test ends. The pool is pinned to one connection because every new
// connection to ":memory:" opens a fresh, empty database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(database.SQLiteDialector(":memory:"), database.GormConfig("silent"))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db))

	return db
}
