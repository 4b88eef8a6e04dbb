package database

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func TestMigrator(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping migrator tests in short mode.")
	}
	t.Parallel()

	db, err := NewPostgresDatabase(LOCAL_CONNECTION_STRING)
	if err != nil {
		t.Skipf("skipping migrator tests, local database not reachable: %s", err.Error())
	}
	if err := db.PingContext(t.Context()); err != nil {
		t.Skipf("skipping migrator tests, local database not reachable: %s", err.Error())
	}

	newMigrator := func(t *testing.T, schemaName string) *migrator {
		t.Helper()
		db.MustExec(fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", pq.QuoteIdentifier(schemaName)))
		return NewDatabaseMigrator(db, slog.New(slog.DiscardHandler))
	}

	t.Run("up then down", func(t *testing.T) {
		t.Parallel()

		schemaName := "rlstats_migrate_up_down"
		m := newMigrator(t, schemaName)

		require.NoError(t, m.Migrate(t.Context(), schemaName))

		var tableCount int
		err := db.GetContext(t.Context(), &tableCount, `
			SELECT COUNT(*) FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = 'skill_snapshots'`,
			schemaName,
		)
		require.NoError(t, err)
		require.Equal(t, 1, tableCount)

		// Should not even be ErrNoChange
		require.NoError(t, m.rollback(t.Context(), schemaName))
	})

	t.Run("migrating twice is a no-op", func(t *testing.T) {
		t.Parallel()

		schemaName := "rlstats_migrate_twice"
		m := newMigrator(t, schemaName)

		require.NoError(t, m.Migrate(t.Context(), schemaName))
		require.NoError(t, m.Migrate(t.Context(), schemaName))
	})
}
