package gstreports

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// amountPrinter renders amounts with Indian digit grouping (12,34,567.89).
var amountPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatAmount renders a money amount the way GST filings show it.
func FormatAmount(v float64) string {
	return amountPrinter.Sprint(number.Decimal(v,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
