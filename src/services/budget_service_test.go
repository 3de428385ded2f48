package services_test

import (
	"context"
	"testing"

	"tally-server/src/models"
	"tally-server/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBudgetCreateStartsFromExistingExpenses(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	txns := services.NewTransactionService(store, nil, 100)
	budgets := services.NewBudgetService(store)
	p, food := newPrincipal(t, store, "alice", "Food")

	for _, tc := range []struct {
		amount string
		date   *models.Date
	}{
		{"30", datePtr(2024, 3, 1)},
		{"45.50", datePtr(2024, 3, 31)},
		{"100", datePtr(2024, 4, 1)},
	} {
		_, err := txns.Create(ctx, p, models.TransactionCreateRequest{
			Amount: decPtr(tc.amount), Description: "food", CategoryID: &food.ID,
			TransactionType: "EXPENSE", PaymentMethod: "CASH", TransactionDate: tc.date,
		})
		require.NoError(t, err)
	}

	b, err := budgets.Create(ctx, p, models.BudgetCreateRequest{CategoryID: &food.ID, LimitAmount: decPtr("90"), Month: 3, Year: 2024})
	require.NoError(t, err)
	assertDecimal(t, "75.50", b.SpentAmount)
	assert.True(t, b.AlertEnabled)
	assertDecimal(t, "80", b.AlertThreshold)
	assertDecimal(t, "83.89", b.PercentageUsed())

	alerts, err := budgets.Alerts(ctx, p)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, b.ID, alerts[0].ID)

	_, err = budgets.Create(ctx, p, models.BudgetCreateRequest{CategoryID: &food.ID, LimitAmount: decPtr("10"), Month: 3, Year: 2024})
	assertKind(t, err, services.KindBusinessRule)
}

func TestBudgetValidationAndLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	budgets := services.NewBudgetService(store)
	p, food := newPrincipal(t, store, "alice", "Food")
	other, _ := newPrincipal(t, store, "bob", "Food")

	_, err := budgets.Create(ctx, p, models.BudgetCreateRequest{CategoryID: &food.ID, LimitAmount: decPtr("0"), Month: 1, Year: 2024})
	assertKind(t, err, services.KindBadRequest)
	_, err = budgets.Create(ctx, p, models.BudgetCreateRequest{CategoryID: &food.ID, LimitAmount: decPtr("10"), Month: 1, Year: 2024, AlertThreshold: decPtr("150")})
	assertKind(t, err, services.KindBadRequest)
	_, err = budgets.Create(ctx, other, models.BudgetCreateRequest{CategoryID: &food.ID, LimitAmount: decPtr("10"), Month: 1, Year: 2024})
	assertKind(t, err, services.KindNotFound)

	disabled := false
	b, err := budgets.Create(ctx, p, models.BudgetCreateRequest{CategoryID: &food.ID, LimitAmount: decPtr("10"), Month: 1, Year: 2024, AlertEnabled: &disabled})
	require.NoError(t, err)
	assert.False(t, b.AlertEnabled)

	enabled := true
	updated, err := budgets.Update(ctx, p, b.ID, models.BudgetUpdateRequest{LimitAmount: decPtr("25"), AlertEnabled: &enabled, AlertThreshold: decPtr("50")})
	require.NoError(t, err)
	assertDecimal(t, "25", updated.LimitAmount)
	assert.True(t, updated.AlertEnabled)
	assertDecimal(t, "50", updated.AlertThreshold)

	_, err = budgets.GetByID(ctx, other, b.ID)
	assertKind(t, err, services.KindNotFound)

	january, year := 1, 2024
	list, err := budgets.List(ctx, p, &january, &year)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	bad := 13
	_, err = budgets.List(ctx, p, &bad, nil)
	assertKind(t, err, services.KindBadRequest)

	require.NoError(t, budgets.Delete(ctx, p, b.ID))
	_, err = budgets.GetByID(ctx, p, b.ID)
	assertKind(t, err, services.KindNotFound)
	assertKind(t, budgets.Delete(ctx, p, b.ID), services.KindNotFound)

	list, err = budgets.List(ctx, p, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}
