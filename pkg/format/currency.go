// Package format renders amounts for people rather than machines.
package format

import (
	"math"

	"github.com/iwvelando/maize-roi/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns an amount with the currency label and thousands separators (e.g., "-MWK 1,234.56").
func Currency(amount float64) string {
	formatted := NumericCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + constants.CurrencyLabel + " " + formatted
	}
	return constants.CurrencyLabel + " " + formatted
}

// NumericCurrency returns an amount without a currency label but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	formatted := printer.Sprintf("%.2f", amount)
	if formatted == "-0.00" {
		return "0.00"
	}
	return formatted
}

// Percent returns a percentage with two decimals (e.g., "42.50%").
func Percent(value float64) string {
	return printer.Sprintf("%.2f%%", value)
}
