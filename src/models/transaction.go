package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "INCOME"
	TransactionTypeExpense TransactionType = "EXPENSE"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCard     PaymentMethod = "CARD"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodOther    PaymentMethod = "OTHER"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOther:
		return true
	}
	return false
}

// Transaction is a stored income or expense. Amount carries the sign of
// TransactionType: positive for income, negative for expense.
type Transaction struct {
	ID              int64
	UserID          int64
	CategoryID      int64
	CategoryName    string
	CategoryColor   string
	CategoryIcon    string
	Amount          decimal.Decimal
	Description     string
	TransactionDate time.Time
	TransactionType TransactionType
	PaymentMethod   PaymentMethod
	Notes           string
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t *Transaction) AbsoluteAmount() decimal.Decimal {
	return t.Amount.Abs()
}

func (t *Transaction) IsExpense() bool {
	return t.TransactionType == TransactionTypeExpense
}

// TransactionFilter narrows a transaction listing. Date bounds are inclusive.
type TransactionFilter struct {
	ActiveOnly bool
	CategoryID *int64
	StartDate  *time.Time
	EndDate    *time.Time
}

type TransactionResponse struct {
	ID              int64           `json:"id"`
	Amount          Money           `json:"amount"`
	AbsoluteAmount  Money           `json:"absoluteAmount"`
	Description     string          `json:"description"`
	TransactionDate Date            `json:"transactionDate"`
	TransactionType TransactionType `json:"transactionType"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	Notes           string          `json:"notes"`
	CategoryID      int64           `json:"categoryId"`
	CategoryName    string          `json:"categoryName"`
	CategoryColor   string          `json:"categoryColor"`
	CategoryIcon    string          `json:"categoryIcon"`
	UserID          int64           `json:"userId"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	Active          bool            `json:"active"`
}

type TransactionSummary struct {
	ID              int64           `json:"id"`
	Amount          Money           `json:"amount"`
	AbsoluteAmount  Money           `json:"absoluteAmount"`
	Description     string          `json:"description"`
	TransactionDate Date            `json:"transactionDate"`
	TransactionType TransactionType `json:"transactionType"`
	CategoryID      int64           `json:"categoryId"`
	CategoryName    string          `json:"categoryName"`
	CategoryColor   string          `json:"categoryColor"`
	CategoryIcon    string          `json:"categoryIcon"`
}

func (t *Transaction) ToResponse() TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		Amount:          NewMoney(t.Amount),
		AbsoluteAmount:  NewMoney(t.AbsoluteAmount()),
		Description:     t.Description,
		TransactionDate: NewDate(t.TransactionDate),
		TransactionType: t.TransactionType,
		PaymentMethod:   t.PaymentMethod,
		Notes:           t.Notes,
		CategoryID:      t.CategoryID,
		CategoryName:    t.CategoryName,
		CategoryColor:   t.CategoryColor,
		CategoryIcon:    t.CategoryIcon,
		UserID:          t.UserID,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
		Active:          t.Active,
	}
}

func (t *Transaction) ToSummary() TransactionSummary {
	return TransactionSummary{
		ID:              t.ID,
		Amount:          NewMoney(t.Amount),
		AbsoluteAmount:  NewMoney(t.AbsoluteAmount()),
		Description:     t.Description,
		TransactionDate: NewDate(t.TransactionDate),
		TransactionType: t.TransactionType,
		CategoryID:      t.CategoryID,
		CategoryName:    t.CategoryName,
		CategoryColor:   t.CategoryColor,
		CategoryIcon:    t.CategoryIcon,
	}
}

func ToSummaries(txns []Transaction) []TransactionSummary {
	out := make([]TransactionSummary, 0, len(txns))
	for i := range txns {
		out = append(out, txns[i].ToSummary())
	}
	return out
}
