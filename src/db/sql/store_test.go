package db

import (
	"context"
	"os"
	"testing"

	tallydb "tally-server/src/db"
	"tally-server/src/db/storetest"
	"tally-server/src/services"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// TestStore needs a disposable database; every table is truncated between
// tests.
func TestStore(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := tallydb.Connect(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, tallydb.Migrate(ctx, pool))

	suite.Run(t, &storetest.Suite{
		Open: func(t *testing.T) services.Store {
			_, err := pool.Exec(ctx, `TRUNCATE budgets, transactions, categories, user_sessions, users RESTART IDENTITY CASCADE`)
			require.NoError(t, err)
			return New(pool)
		},
	})
}
