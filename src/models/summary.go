package models

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Totals struct {
	TotalIncome   Money `json:"totalIncome"`
	TotalExpenses Money `json:"totalExpenses"`
	Balance       Money `json:"balance"`
}

func NewTotals(income, expenses decimal.Decimal) Totals {
	return Totals{
		TotalIncome:   NewMoney(income),
		TotalExpenses: NewMoney(expenses),
		Balance:       NewMoney(income.Sub(expenses)),
	}
}

type CategoryAmount struct {
	CategoryID   int64
	CategoryName string
	Amount       decimal.Decimal
}

// CategoryBreakdown is serialized as a JSON object whose keys keep slice order.
type CategoryBreakdown []CategoryAmount

func (b CategoryBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.CategoryName)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(entry.Amount.StringFixed(2))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
