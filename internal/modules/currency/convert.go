// Package currency converts GTQ amounts into USD minor units using the
// fixed exchange rate from configuration.
package currency

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidRate = errors.New("exchange rate must be a positive number")

var oneHundred = decimal.NewFromInt(100)

// ToUSDCents converts a GTQ amount to whole USD cents: round(amount * rate * 100).
// Rounding is half away from zero (decimal.Round semantics), so 0.005 USD
// becomes 1 cent. rate is GTQ->USD (USD per 1 GTQ) and must be > 0.
func ToUSDCents(amount decimal.Decimal, rate decimal.Decimal) (int64, error) {
	if rate.LessThanOrEqual(decimal.Zero) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidRate, rate)
	}
	return amount.Mul(rate).Mul(oneHundred).Round(0).IntPart(), nil
}

// FromUSDCents recovers the GTQ amount backing a cent total: cents / 100 / rate.
func FromUSDCents(cents int64, rate decimal.Decimal) (decimal.Decimal, error) {
	if rate.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidRate, rate)
	}
	return decimal.NewFromInt(cents).Div(oneHundred).Div(rate), nil
}
