package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ollyware/tokend/internal/db"
)

// OpenDB creates a sqlite database in a per-test temp directory and applies
// the schema migrations. The database is closed and removed when the test ends.
func OpenDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "tokens.db")

	pool, err := db.ConnectAndMigrate(t.Context(), path)
	require.NoError(t, err, "Error happened when opening test database and migrating schema")

	t.Cleanup(func() {
		_ = pool.Close()
	})

	return pool
}
