package utils

import (
	"github.com/shopspring/decimal"
)

// MoneyPrecision is the number of fraction digits every amount is kept at.
const MoneyPrecision = 2

// MaxAmount is the largest value a NUMERIC(15,2) column holds. It bounds both
// single amounts and balances.
var MaxAmount = decimal.RequireFromString("9999999999999.99")

// FormatAmount renders an amount with exactly two fraction digits.
// Example: 150 returns "150.00", 12.345 returns "12.35"
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyPrecision)
}

// HasMoneyPrecision reports whether amount has at most two fraction digits.
func HasMoneyPrecision(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(MoneyPrecision))
}

// IsValidAmount reports whether amount can be moved: strictly positive, no
// finer than one cent and not above MaxAmount.
func IsValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && !amount.GreaterThan(MaxAmount) && HasMoneyPrecision(amount)
}
