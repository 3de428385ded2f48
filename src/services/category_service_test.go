package services_test

import (
	"context"
	"testing"

	"tally-server/src/models"
	"tally-server/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	svc := services.NewCategoryService(store, newCache(t))
	alice, food := newPrincipal(t, store, "alice", "Food")
	bob, bobsFood := newPrincipal(t, store, "bob", "Food")

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 1)

	created, err := svc.Create(ctx, alice, models.CategoryCreateRequest{Name: "  Travel ", Description: "Trips"})
	require.NoError(t, err)
	assert.Equal(t, "Travel", created.Name)
	assert.Equal(t, models.DefaultCategoryColor, created.Color)
	assert.Equal(t, models.DefaultCategoryIcon, created.Icon)
	assert.False(t, created.IsDefault)

	list, err = svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, list, 2, "create invalidates the cached list")

	_, err = svc.Create(ctx, alice, models.CategoryCreateRequest{Name: "travel"})
	assertKind(t, err, services.KindBusinessRule)

	got, err := svc.GetByID(ctx, alice, food.ID)
	require.NoError(t, err)
	assert.Equal(t, "Food", got.Name)

	_, err = svc.GetByID(ctx, alice, bobsFood.ID)
	assertKind(t, err, services.KindNotFound)

	ok, err := svc.IsValidCategoryForUser(ctx, bob, bobsFood.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = svc.IsValidCategoryForUser(ctx, bob, food.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
