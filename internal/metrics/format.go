package metrics

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/locvowork/compensation_dashboard/internal/domain"
)

// NoData is shown in place of an undefined aggregate.
const NoData = "no data"

var printer = message.NewPrinter(language.English)

// FormatRatio renders a compa ratio with two decimals.
func FormatRatio(o domain.Optional) string {
	if !o.Valid {
		return NoData
	}
	return printer.Sprintf("%.2f", o.Value)
}

// FormatPercent renders a percentage with one decimal, e.g. "50.0%".
func FormatPercent(o domain.Optional) string {
	if !o.Valid {
		return NoData
	}
	return printer.Sprintf("%.1f%%", o.Value)
}

// FormatCurrency renders whole dollars with thousands separators, e.g. "$60,000" or "-$1,500".
func FormatCurrency(o domain.Optional) string {
	if !o.Valid {
		return NoData
	}
	if o.Value < 0 {
		return "-$" + printer.Sprintf("%.0f", -o.Value)
	}
	return "$" + printer.Sprintf("%.0f", o.Value)
}
