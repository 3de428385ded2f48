package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		name      string
		magnitude string
		txType    TransactionType
		want      string
		wantErr   error
	}{
		{"income stays positive", "1000.00", TransactionTypeIncome, "1000.00", nil},
		{"expense becomes negative", "50.00", TransactionTypeExpense, "-50.00", nil},
		{"zero income rejected", "0", TransactionTypeIncome, "", ErrNonPositiveAmount},
		{"zero expense rejected", "0.00", TransactionTypeExpense, "", ErrNonPositiveAmount},
		{"negative magnitude rejected", "-5", TransactionTypeExpense, "", ErrNonPositiveAmount},
		{"unknown type rejected", "5", TransactionType("REFUND"), "", ErrInvalidTransactionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAmount(decimal.RequireFromString(tt.magnitude), tt.txType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestNormalizeAmountSignMatchesType(t *testing.T) {
	for _, raw := range []string{"0.01", "1", "99.99", "123456.78"} {
		m := decimal.RequireFromString(raw)

		income, err := NormalizeAmount(m, TransactionTypeIncome)
		require.NoError(t, err)
		assert.True(t, income.IsPositive())

		expense, err := NormalizeAmount(m, TransactionTypeExpense)
		require.NoError(t, err)
		assert.True(t, expense.IsNegative())
		assert.True(t, income.Equal(expense.Abs()))
	}
}

func TestCheckAmountDigits(t *testing.T) {
	assert.True(t, CheckAmountDigits(decimal.RequireFromString("10.5"), 10, 2))
	assert.True(t, CheckAmountDigits(decimal.RequireFromString("9999999999.99"), 10, 2))
	assert.True(t, CheckAmountDigits(decimal.RequireFromString("1.500"), 10, 2))
	assert.False(t, CheckAmountDigits(decimal.RequireFromString("1.505"), 10, 2))
	assert.False(t, CheckAmountDigits(decimal.RequireFromString("10000000000"), 10, 2))
}

func TestMoneyMarshalsTwoFractionDigits(t *testing.T) {
	out, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{NewMoney(decimal.NewFromInt(1000))})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":1000.00}`, string(out))
	assert.Contains(t, string(out), "1000.00")
}

func TestDateJSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-02-29"`), &d))
	assert.Equal(t, "2024-02-29", d.String())

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-29"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"2024-02-30"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240101`), &d))
}
