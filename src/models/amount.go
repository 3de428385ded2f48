package models

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveAmount      = errors.New("amount must be greater than zero")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
)

// NormalizeAmount returns the value to store for a caller-supplied magnitude:
// abs(magnitude) for income and -abs(magnitude) for expense. This is the only
// place the sign/type invariant of a Transaction is established.
func NormalizeAmount(magnitude decimal.Decimal, t TransactionType) (decimal.Decimal, error) {
	if !t.Valid() {
		return decimal.Zero, ErrInvalidTransactionType
	}
	if !magnitude.IsPositive() {
		return decimal.Zero, ErrNonPositiveAmount
	}
	if t == TransactionTypeExpense {
		return magnitude.Abs().Neg(), nil
	}
	return magnitude.Abs(), nil
}

// CheckAmountDigits reports whether d fits NUMERIC(12,2): at most 10 integer
// and 2 fractional digits.
func CheckAmountDigits(d decimal.Decimal, integer, fraction int) bool {
	if !d.Equal(d.Truncate(int32(fraction))) {
		return false
	}
	limit := decimal.New(1, int32(integer))
	return d.Abs().LessThan(limit)
}

// Money renders a decimal as a JSON number with two fractional digits.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}

const DateLayout = "2006-01-02"

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Time.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date %s, expected YYYY-MM-DD", data)
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
