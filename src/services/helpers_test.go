package services_test

import (
	"context"
	"testing"
	"time"

	"tally-server/src/db"
	"tally-server/src/db/sqlite"
	"tally-server/src/models"
	"tally-server/src/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newCache(t *testing.T) *db.QueryCache {
	t.Helper()
	cache, err := db.NewQueryCache(time.Minute)
	require.NoError(t, err)
	t.Cleanup(cache.Close)
	return cache
}

// newPrincipal stores a user with one category and returns both.
func newPrincipal(t *testing.T, store services.Store, name, category string) (models.Principal, *models.Category) {
	t.Helper()
	ctx := context.Background()
	u, err := store.CreateUser(ctx, &models.User{Username: name, Email: name + "@example.com", PasswordHash: []byte("x")})
	require.NoError(t, err)
	c, err := store.CreateCategory(ctx, &models.Category{UserID: u.ID, Name: category, Color: "#000000", Icon: "x"})
	require.NoError(t, err)
	return models.Principal{UserID: u.ID, Username: u.Username}, c
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func datePtr(y int, m time.Month, d int) *models.Date {
	date := models.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	return &date
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertKind(t *testing.T, err error, kind services.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, services.KindOf(err), "error: %v", err)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}
