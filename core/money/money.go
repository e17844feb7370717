// Package money provides exact decimal money arithmetic.
//
// All monetary math in the engine flows through this package. Amounts are
// shopspring decimals (never binary floats) and every rounding decision
// uses a single primitive, Round, which applies round-half-to-even.
package money

import (
	"github.com/shopspring/decimal"

	"dive-pricing/internal/errors"
)

// Currency represents a currency code
type Currency string

const (
	CurrencyMXN Currency = "MXN"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// Money is an exact decimal amount tagged with a currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

// New creates a Money value
func New(amount decimal.Decimal, currency Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

// Zero returns a zero amount in the given currency
func Zero(currency Currency) Money {
	return Money{Amount: decimal.Zero, Currency: currency}
}

// FromString parses an exact decimal string into a Money value.
// Binary floats never enter the engine through this path.
func FromString(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, errors.Wrap(errors.TypeInvalidInput, "malformed amount "+amount, err)
	}
	return Money{Amount: d, Currency: currency}, nil
}

// Add returns m + other. Currencies must match.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, errors.CurrencyMismatch("add", string(m.Currency), string(other.Currency))
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub returns m - other. Currencies must match.
func (m Money) Sub(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, errors.CurrencyMismatch("subtract", string(m.Currency), string(other.Currency))
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// MulInt returns m scaled by an integer quantity
func (m Money) MulInt(n int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(n))), Currency: m.Currency}
}

// Mul returns m scaled by a decimal factor
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{Amount: m.Amount.Mul(factor), Currency: m.Currency}
}

// DivInt divides m by an integer count. The result is not rounded; callers
// round exactly once when the quotient becomes a final monetary value.
func (m Money) DivInt(n int) Money {
	return Money{Amount: m.Amount.Div(decimal.NewFromInt(int64(n))), Currency: m.Currency}
}

// Round rounds the amount to the currency's minor unit (2 places)
// using round-half-to-even.
func (m Money) Round() Money {
	return Money{Amount: Round(m.Amount, 2), Currency: m.Currency}
}

// IsZero reports whether the amount is zero
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Equal reports whether two Money values have the same currency and amount
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

// String formats the amount with its currency code
func (m Money) String() string {
	return m.Amount.String() + " " + string(m.Currency)
}

// Round rounds to the given number of decimal places using banker's
// rounding (round-half-to-even): 2.5 -> 2, 3.5 -> 4, 4.5 -> 4.
func Round(amount decimal.Decimal, places int32) decimal.Decimal {
	return amount.RoundBank(places)
}
