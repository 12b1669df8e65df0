package utils

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Figures use thousands separators and a decimal point, as in the financial model.
var printer = message.NewPrinter(language.English)

// FormatNumber renders v with the given decimals and digit grouping ("1,234.50").
func FormatNumber(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return printer.Sprintf(fmt.Sprintf("%%.%df", decimals), v)
}

// FormatPercent renders a margin. Ratios (<= 1) are scaled to percent;
// larger values are taken as already expressed in percent.
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	if v <= 1 {
		v *= 100
	}
	return printer.Sprintf("%.1f%%", v)
}

// FormatInt renders a whole number with digit grouping.
func FormatInt(n int) string {
	return printer.Sprintf("%d", n)
}
