// Package money holds the monetary helpers shared by the ledger: tolerance-based
// comparison and currency-aware display.
package money

import (
	"github.com/shopspring/decimal"

	gomoney "github.com/Rhymond/go-money"
)

// Epsilon is one minor currency unit. Amounts closer than this are equal.
var Epsilon = decimal.New(1, -2)

// Equal compares two amounts within Epsilon.
func Equal(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// Positive reports whether amount is at least one minor unit.
func Positive(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(Epsilon)
}

// Exceeds reports whether amount is larger than available. Both sides are already
// rounded to minor units, so no tolerance applies.
func Exceeds(amount, available decimal.Decimal) bool {
	return amount.GreaterThan(available)
}

func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Format renders amount in the given ISO currency, e.g. "$1,234.50" for USD.
// Unknown currencies fall back to a plain fixed-point string with the code appended.
func Format(amount decimal.Decimal, currency string) string {
	cur := gomoney.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return gomoney.New(minor, cur.Code).Display()
}
