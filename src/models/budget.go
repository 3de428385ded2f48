package models

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred               = decimal.NewFromInt(100)
	DefaultAlertThreshold = decimal.NewFromInt(80)
)

// Budget is a monthly spending limit for one category. SpentAmount is kept
// non-negative.
type Budget struct {
	ID             int64
	UserID         int64
	CategoryID     int64
	CategoryName   string
	LimitAmount    decimal.Decimal
	SpentAmount    decimal.Decimal
	Month          int
	Year           int
	AlertEnabled   bool
	AlertThreshold decimal.Decimal
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PercentageUsed is spent/limit*100 rounded half-up to two places. A zero
// limit yields zero.
func (b *Budget) PercentageUsed() decimal.Decimal {
	if b.LimitAmount.IsZero() {
		return decimal.Zero
	}
	return b.SpentAmount.DivRound(b.LimitAmount, 4).Mul(hundred).Round(2)
}

func (b *Budget) RemainingAmount() decimal.Decimal {
	return b.LimitAmount.Sub(b.SpentAmount)
}

func (b *Budget) IsExceeded() bool {
	return b.SpentAmount.GreaterThan(b.LimitAmount)
}

func (b *Budget) HasReachedAlertThreshold() bool {
	if !b.AlertEnabled {
		return false
	}
	return b.PercentageUsed().GreaterThanOrEqual(b.AlertThreshold)
}

func (b *Budget) AddSpentAmount(amount decimal.Decimal) {
	b.SpentAmount = b.SpentAmount.Add(amount.Abs())
}

func (b *Budget) SubtractSpentAmount(amount decimal.Decimal) {
	b.SpentAmount = b.SpentAmount.Sub(amount.Abs())
	if b.SpentAmount.IsNegative() {
		b.SpentAmount = decimal.Zero
	}
}

// Covers reports whether a transaction dated d in categoryID counts toward b.
func (b *Budget) Covers(categoryID int64, d time.Time) bool {
	return b.Active && b.CategoryID == categoryID && b.Year == d.Year() && b.Month == int(d.Month())
}

type BudgetResponse struct {
	ID              int64     `json:"id"`
	CategoryID      int64     `json:"categoryId"`
	CategoryName    string    `json:"categoryName"`
	LimitAmount     Money     `json:"limitAmount"`
	SpentAmount     Money     `json:"spentAmount"`
	RemainingAmount Money     `json:"remainingAmount"`
	PercentageUsed  Money     `json:"percentageUsed"`
	Month           int       `json:"month"`
	Year            int       `json:"year"`
	AlertEnabled    bool      `json:"alertEnabled"`
	AlertThreshold  Money     `json:"alertThreshold"`
	Exceeded        bool      `json:"exceeded"`
	AlertReached    bool      `json:"alertReached"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (b *Budget) ToResponse() BudgetResponse {
	return BudgetResponse{
		ID:              b.ID,
		CategoryID:      b.CategoryID,
		CategoryName:    b.CategoryName,
		LimitAmount:     NewMoney(b.LimitAmount),
		SpentAmount:     NewMoney(b.SpentAmount),
		RemainingAmount: NewMoney(b.RemainingAmount()),
		PercentageUsed:  NewMoney(b.PercentageUsed()),
		Month:           b.Month,
		Year:            b.Year,
		AlertEnabled:    b.AlertEnabled,
		AlertThreshold:  NewMoney(b.AlertThreshold),
		Exceeded:        b.IsExceeded(),
		AlertReached:    b.HasReachedAlertThreshold(),
		Active:          b.Active,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func ToBudgetResponses(budgets []Budget) []BudgetResponse {
	out := make([]BudgetResponse, 0, len(budgets))
	for i := range budgets {
		out = append(out, budgets[i].ToResponse())
	}
	return out
}
