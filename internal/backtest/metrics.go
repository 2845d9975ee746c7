package backtest

import (
	"math"
	"sort"
)

// ReturnStats describes the distribution of annualized returns across the
// windows of one length. All values are percentages.
type ReturnStats struct {
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// CalculateReturnStats computes ReturnStats from fractional returns
func CalculateReturnStats(returns []float64) ReturnStats {
	if len(returns) == 0 {
		return ReturnStats{}
	}

	minR, maxR := returns[0], returns[0]
	for _, r := range returns[1:] {
		minR = math.Min(minR, r)
		maxR = math.Max(maxR, r)
	}

	return ReturnStats{
		Mean:   average(returns) * 100,
		Median: median(returns) * 100,
		StdDev: stdDev(returns) * 100,
		Min:    minR * 100,
		Max:    maxR * 100,
	}
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the sample standard deviation; zero below two values
func stdDev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}

	avg := average(values)
	sumSquares := 0.0
	for _, v := range values {
		diff := v - avg
		sumSquares += diff * diff
	}

	return math.Sqrt(sumSquares / float64(len(values)-1))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
