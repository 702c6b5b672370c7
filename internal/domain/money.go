package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, cur currency.Unit) Money {
	return Money{Amount: amount, Currency: cur}
}

func ZeroMoney(cur currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: cur}
}

// Mul returns the amount multiplied by a quantity, currency unchanged.
func (m Money) Mul(qty int32) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt32(qty)), Currency: m.Currency}
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// MinorUnits converts the amount to the smallest currency unit (cents, paise),
// rounding half away from zero at the currency's standard scale.
func (m Money) MinorUnits() int64 {
	scale, _ := currency.Standard.Rounding(m.Currency)
	return m.Amount.Shift(int32(scale)).Round(0).IntPart()
}

// Decimal renders the amount at the currency's standard scale, without the code.
func (m Money) Decimal() string {
	scale, _ := currency.Standard.Rounding(m.Currency)
	return m.Amount.StringFixed(int32(scale))
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Decimal(), m.Currency)
}
