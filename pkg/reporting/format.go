package reporting

import (
	"math"

	"github.com/shopspring/decimal"
)

// round2 rounds half away from zero to two decimals. NewFromFloat panics on
// NaN and Inf, so callers check finiteness first.
func round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func fixed2(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return round2(v).StringFixed(2)
}

func formatMoney(v float64) string {
	return "$" + fixed2(v)
}

func formatPercent(v float64) string {
	return fixed2(v) + "%"
}
