package models

import "github.com/shopspring/decimal"

type TransactionCreateRequest struct {
	Amount          *decimal.Decimal `json:"amount" validate:"-"`
	Description     string           `json:"description" validate:"notblank,max=255"`
	CategoryID      *int64           `json:"categoryId" validate:"required,gt=0"`
	TransactionType string           `json:"transactionType" validate:"required,oneof=INCOME EXPENSE"`
	PaymentMethod   string           `json:"paymentMethod" validate:"required,oneof=CASH CARD TRANSFER OTHER"`
	TransactionDate *Date            `json:"transactionDate" validate:"-"`
	Notes           string           `json:"notes" validate:"max=255"`
}

// TransactionUpdateRequest is a partial update; nil fields are left unchanged.
type TransactionUpdateRequest struct {
	Amount          *decimal.Decimal `json:"amount" validate:"-"`
	Description     *string          `json:"description" validate:"omitempty,max=255"`
	CategoryID      *int64           `json:"categoryId" validate:"omitempty,gt=0"`
	TransactionType *string          `json:"transactionType" validate:"omitempty,oneof=INCOME EXPENSE"`
	PaymentMethod   *string          `json:"paymentMethod" validate:"omitempty,oneof=CASH CARD TRANSFER OTHER"`
	TransactionDate *Date            `json:"transactionDate" validate:"-"`
	Notes           *string          `json:"notes" validate:"omitempty,max=255"`
}

type BudgetCreateRequest struct {
	CategoryID     *int64           `json:"categoryId" validate:"required,gt=0"`
	LimitAmount    *decimal.Decimal `json:"limitAmount" validate:"-"`
	Month          int              `json:"month" validate:"min=1,max=12"`
	Year           int              `json:"year" validate:"min=2000,max=2100"`
	AlertEnabled   *bool            `json:"alertEnabled"`
	AlertThreshold *decimal.Decimal `json:"alertThreshold" validate:"-"`
}

type BudgetUpdateRequest struct {
	LimitAmount    *decimal.Decimal `json:"limitAmount" validate:"-"`
	AlertEnabled   *bool            `json:"alertEnabled"`
	AlertThreshold *decimal.Decimal `json:"alertThreshold" validate:"-"`
}
