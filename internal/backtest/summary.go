package backtest

import (
	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
)

// YearSummary aggregates every window of one length. Return and ratio fields
// are percentages.
type YearSummary struct {
	Years            int
	WindowMonths     int
	Windows          int
	LumpSumWins      int
	DCAWins          int
	Ties             int
	AvgLumpSumReturn float64
	AvgDCAReturn     float64
	LumpSumWinRatio  float64
	LumpSumStats     ReturnStats
	DCAStats         ReturnStats
}

// DCAWinRatio is the complement of LumpSumWinRatio
func (s YearSummary) DCAWinRatio() float64 {
	return 100 - s.LumpSumWinRatio
}

// Summarize turns a tally into a YearSummary. The win ratio is always
// wins / (wins + dcaWins) * 100.
func Summarize(years int, tally WindowTally) (YearSummary, error) {
	const op = "Summarize"

	if tally.LumpSumWins < 0 || tally.DCAWins < 0 {
		return YearSummary{}, bterrors.NewInvalidInputError(component, op, "win counts must be non-negative").
			WithContext("lump_sum_wins", tally.LumpSumWins).
			WithContext("dca_wins", tally.DCAWins)
	}
	total := tally.LumpSumWins + tally.DCAWins
	if total == 0 {
		return YearSummary{}, bterrors.NewInsufficientDataError(component, op, "no windows were evaluated").
			WithContext("years", years)
	}
	if len(tally.LumpSumReturns) != total || len(tally.DCAReturns) != total {
		return YearSummary{}, bterrors.NewInvalidInputError(component, op, "return lists do not match win counts").
			WithContext("windows", total).
			WithContext("lump_sum_returns", len(tally.LumpSumReturns)).
			WithContext("dca_returns", len(tally.DCAReturns))
	}

	months := tally.WindowMonths
	if months == 0 {
		months = years * MonthsPerYear
	}

	lumpSumStats := CalculateReturnStats(tally.LumpSumReturns)
	dcaStats := CalculateReturnStats(tally.DCAReturns)

	return YearSummary{
		Years:            years,
		WindowMonths:     months,
		Windows:          total,
		LumpSumWins:      tally.LumpSumWins,
		DCAWins:          tally.DCAWins,
		Ties:             tally.Ties,
		AvgLumpSumReturn: lumpSumStats.Mean,
		AvgDCAReturn:     dcaStats.Mean,
		LumpSumWinRatio:  float64(tally.LumpSumWins) / float64(total) * 100,
		LumpSumStats:     lumpSumStats,
		DCAStats:         dcaStats,
	}, nil
}
