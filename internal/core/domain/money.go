package domain

import "github.com/shopspring/decimal"

// AmountScale is the number of decimal places amounts are stored with.
const AmountScale = 4

// FitsAmountScale reports whether d can be stored without rounding.
func FitsAmountScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale))
}
