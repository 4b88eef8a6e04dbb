package database

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/Amund211/rlstats/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestDB(t *testing.T) {
	t.Parallel()

	t.Run("db name", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "rlstats", DB_NAME)
	})

	if testing.Short() {
		t.Skip("skipping db tests in short mode.")
	}
	if _, err := sqlx.Connect("postgres", LOCAL_CONNECTION_STRING); err != nil {
		t.Skipf("skipping db tests, local database not reachable: %s", err.Error())
	}

	t.Run("NewPostgresDatabase", func(t *testing.T) {
		t.Parallel()

		db, err := NewPostgresDatabase(LOCAL_CONNECTION_STRING)
		require.NoError(t, err)
		require.NotNil(t, db)
	})

	t.Run("createDatabaseIfNotExists", func(t *testing.T) {
		t.Parallel()

		db, err := sqlx.Connect("postgres", LOCAL_CONNECTION_STRING)
		require.NoError(t, err)
		t.Run("already existing", func(t *testing.T) {
			t.Parallel()

			err := createDatabaseIfNotExists(db, "postgres")
			require.NoError(t, err)

			err = createDatabaseIfNotExists(db, DB_NAME)
			require.NoError(t, err)
		})

		t.Run("new database", func(t *testing.T) {
			t.Parallel()

			const characters = "abcdefghijklmnopqrstuvwxyz"
			bytes := make([]byte, 10)
			for i := range bytes {
				bytes[i] = characters[rand.Intn(len(characters))]
			}

			dbName := fmt.Sprintf("zz_random_db_%s", string(bytes))

			err := createDatabaseIfNotExists(db, dbName)
			require.NoError(t, err)
		})
	})
}

func TestNewPostgresDatabaseFromConfig(t *testing.T) {
	t.Setenv("RLSTATS_ENVIRONMENT", "production")
	t.Setenv("RL_API_TOKEN", "token")
	t.Setenv("SENTRY_DSN", "https://key@sentry.example.com/1")
	t.Setenv("DB_CONNECTION_STRING", "")

	conf, err := config.ConfigFromEnv()
	require.NoError(t, err)

	db, err := NewPostgresDatabaseFromConfig(conf)
	require.ErrorIs(t, err, config.ErrMissingRequiredValue)
	require.Nil(t, db)
}
