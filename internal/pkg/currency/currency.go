// Package currency renders rupee amounts with Indian digit grouping
// (12,34,567), rounded to whole rupees.
package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const symbol = "₹"

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Rupee formats a whole rupee amount, e.g. -₹1,23,456.
func Rupee(amount int64) string {
	return RupeeDecimal(decimal.NewFromInt(amount))
}

// RupeeDecimal rounds half away from zero and formats the result.
func RupeeDecimal(amount decimal.Decimal) string {
	rounded := amount.Round(0)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + symbol + printer.Sprintf("%d", rounded.Abs().IntPart())
}
