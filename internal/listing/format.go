package listing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatPrice renders a price for display: a dollar sign followed by the
// en-US grouped decimal form, e.g. 1234.5 -> "$1,234.5".
func FormatPrice(price float64) string {
	p := message.NewPrinter(language.English)
	return "$" + p.Sprintf("%v", number.Decimal(price, number.MaxFractionDigits(3)))
}

