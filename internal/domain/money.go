package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary quantity in the minor units of its currency
// (cents for USD, yen for JPY). All engine arithmetic happens on Amount.
type Amount int64

// DefaultEpsilon is the absolute tolerance, in currency units, under which a
// net balance is treated as settled.
var DefaultEpsilon = decimal.New(1, -2)

const defaultExponent = 2

// Currencies whose minor unit is not the hundredth.
var currencyExponents = map[string]int32{
	"JPY": 0, "KRW": 0, "VND": 0, "CLP": 0, "ISK": 0,
	"UGX": 0, "XAF": 0, "XOF": 0, "PYG": 0, "RWF": 0,
	"BHD": 3, "KWD": 3, "OMR": 3, "JOD": 3, "TND": 3,
	"IQD": 3, "LYD": 3,
}

// MaxAmount bounds a single expense or transfer, in minor units. Balances
// are int64 sums of such amounts, so a group needs more than 9000
// maximum-size expenses in one currency before a sum can overflow.
const MaxAmount Amount = 1_000_000_000_000_000

var maxAmount = decimal.NewFromInt(int64(MaxAmount))

// NormalizeCurrency upper-cases and trims a currency code.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// CurrencyExponent returns the number of decimal places of the currency's
// minor unit.
func CurrencyExponent(currency string) int32 {
	if exp, ok := currencyExponents[NormalizeCurrency(currency)]; ok {
		return exp
	}
	return defaultExponent
}

// AmountFromDecimal converts a decimal in currency units to minor units,
// rounding half away from zero to the currency's precision. Magnitudes above
// MaxAmount are rejected.
func AmountFromDecimal(d decimal.Decimal, currency string) (Amount, error) {
	minor := d.Shift(CurrencyExponent(currency)).Round(0)
	if minor.Abs().GreaterThan(maxAmount) {
		return 0, fmt.Errorf("%w: %s", ErrAmountTooLarge, d.String())
	}
	return Amount(minor.IntPart()), nil
}

// Decimal converts the amount back to currency units for presentation.
func (a Amount) Decimal(currency string) decimal.Decimal {
	return decimal.New(int64(a), -CurrencyExponent(currency))
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Epsilon converts a tolerance in currency units to minor units of the given
// currency. Fractions of a minor unit are dropped, so 0.01 JPY becomes 0.
func Epsilon(tolerance decimal.Decimal, currency string) Amount {
	return Amount(tolerance.Shift(CurrencyExponent(currency)).Floor().IntPart())
}
