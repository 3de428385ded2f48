package storage

import (
	"context"
	"testing"

	"tally-server/src/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	store, closeStore, err := Open(context.Background(), config.Config{
		DatabaseDriver: config.DriverSQLite,
		SQLitePath:     ":memory:",
	})
	require.NoError(t, err)
	defer closeStore()

	n, err := store.CountCategories(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, _, err := Open(context.Background(), config.Config{DatabaseDriver: "mysql"})
	assert.ErrorContains(t, err, "unknown database driver")
}
