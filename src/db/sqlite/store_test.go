package sqlite

import (
	"context"
	"testing"

	"tally-server/src/db/storetest"
	"tally-server/src/models"
	"tally-server/src/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	suite.Run(t, &storetest.Suite{
		Open: func(t *testing.T) services.Store { return openTestStore(t) },
	})
}

func TestCentsConversion(t *testing.T) {
	assert.Equal(t, int64(123456), toCents(decimal.RequireFromString("1234.56")))
	assert.Equal(t, int64(-5000), toCents(decimal.RequireFromString("-50")))
	assert.True(t, decimal.RequireFromString("-0.05").Equal(fromCents(-5)))
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.migrate(context.Background()))
}

func TestForeignKeysEnforced(t *testing.T) {
	s := openTestStore(t)
	_, err := s.CreateCategory(context.Background(), &models.Category{UserID: 4242, Name: "Orphan"})
	assert.Error(t, err)
}
