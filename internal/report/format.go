package report

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Thousands formats n with thousands separators, e.g. 12,345.
func Thousands(n int) string {
	return printer.Sprintf("%d", n)
}

// Percent formats part/whole as a percentage rounded to one decimal.
// A zero whole yields "0.0%".
func Percent(part, whole int) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", Round(float64(part)/float64(whole)*100, 1))
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
