package kernel

import (
	"fmt"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// moneyScale is the number of fractional digits every amount carries.
const moneyScale = 2

// Money is a non-negative amount with two fractional digits.
// It is backed by shopspring/decimal so fee arithmetic never goes through float64.
//
// The zero value is a valid zero amount.
//
// Example:
//
//	price, err := kernel.NewMoney(decimal.RequireFromString("120.00"))
//	rate, _ := kernel.NewFeeRate(decimal.RequireFromString("0.15"))
//	fee := price.ApplyRate(rate)     // 18.00
//	payout, _ := price.Sub(fee)      // 102.00
type Money struct {
	amount decimal.Decimal
}

// NewMoney validates an amount. Negative amounts and amounts with more
// than two fractional digits are rejected.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money", fmt.Errorf("%s is negative", amount))
	}
	if !amount.Equal(amount.Round(moneyScale)) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"money",
			fmt.Errorf("%s has more than %d fractional digits", amount, moneyScale),
		)
	}
	return Money{amount: amount.Round(moneyScale)}, nil
}

// MoneyFromString parses a decimal string such as "19.90".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money", err)
	}
	return NewMoney(d)
}

// ZeroMoney returns a zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// Amount returns the underlying decimal, rounded to two digits.
func (m Money) Amount() decimal.Decimal {
	return m.amount.Round(moneyScale)
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other, or an error when the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	if m.amount.LessThan(other.amount) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"money",
			fmt.Errorf("%s is less than %s", m, other),
		)
	}
	return Money{amount: m.amount.Sub(other.amount)}, nil
}

// ApplyRate returns m × rate rounded half-up to two digits.
func (m Money) ApplyRate(rate FeeRate) Money {
	return Money{amount: m.amount.Mul(rate.value).Round(moneyScale)}
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}
