package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBudgetPercentageUsed(t *testing.T) {
	tests := []struct {
		limit, spent, want string
	}{
		{"0", "50", "0"},
		{"200", "50", "25.00"},
		{"300", "100", "33.33"},
		{"300", "200", "66.67"},
		{"100", "150", "150.00"},
		{"8", "1", "12.50"},
	}
	for _, tt := range tests {
		b := Budget{LimitAmount: dec(tt.limit), SpentAmount: dec(tt.spent)}
		assert.True(t, dec(tt.want).Equal(b.PercentageUsed()), "limit=%s spent=%s got %s", tt.limit, tt.spent, b.PercentageUsed())
	}
}

func TestBudgetExceededAndAlert(t *testing.T) {
	b := Budget{LimitAmount: dec("100"), SpentAmount: dec("80"), AlertEnabled: true, AlertThreshold: DefaultAlertThreshold}
	assert.False(t, b.IsExceeded())
	assert.True(t, b.HasReachedAlertThreshold())
	assert.True(t, dec("20").Equal(b.RemainingAmount()))

	b.AlertEnabled = false
	assert.False(t, b.HasReachedAlertThreshold())

	b.SpentAmount = dec("100.01")
	assert.True(t, b.IsExceeded())
}

func TestBudgetSpentAdjustments(t *testing.T) {
	b := Budget{SpentAmount: dec("10")}

	b.AddSpentAmount(dec("-25.50"))
	assert.True(t, dec("35.50").Equal(b.SpentAmount))

	b.SubtractSpentAmount(dec("5.50"))
	assert.True(t, dec("30").Equal(b.SpentAmount))

	b.SubtractSpentAmount(dec("-100"))
	assert.True(t, b.SpentAmount.IsZero(), "spent amount clamps at zero")
}

func TestBudgetCovers(t *testing.T) {
	b := Budget{CategoryID: 3, Month: 2, Year: 2024, Active: true}
	assert.True(t, b.Covers(3, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)))
	assert.False(t, b.Covers(3, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, b.Covers(4, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))

	b.Active = false
	assert.False(t, b.Covers(3, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
}
