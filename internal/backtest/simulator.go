package backtest

import (
	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
)

// WindowTally is the raw outcome of scoring every window of one length.
// Aggregation happens in Summarize.
type WindowTally struct {
	WindowMonths   int
	LumpSumWins    int
	DCAWins        int // includes ties
	Ties           int
	LumpSumReturns []float64
	DCAReturns     []float64
}

// Windows returns the number of windows scored
func (t WindowTally) Windows() int {
	return t.LumpSumWins + t.DCAWins
}

// SimulateWindowLength scores lump-sum against DCA over every rolling window of
// years*12 months.
func SimulateWindowLength(amount float64, prices []float64, years int) (WindowTally, error) {
	if years <= 0 {
		return WindowTally{}, bterrors.NewInvalidInputError(component, "SimulateWindowLength", "window length must be positive").
			WithContext("years", years)
	}
	return SimulateWindowMonths(amount, prices, years*MonthsPerYear)
}

// SimulateWindowMonths is SimulateWindowLength for a window given in months.
// Lump-sum is credited only when its ending value is strictly greater; ties go
// to DCA and are also counted in Ties.
func SimulateWindowMonths(amount float64, prices []float64, months int) (WindowTally, error) {
	const op = "SimulateWindowMonths"

	if err := validateAmount(op, amount); err != nil {
		return WindowTally{}, err
	}
	if months <= 0 {
		return WindowTally{}, bterrors.NewInvalidInputError(component, op, "window length must be positive").
			WithContext("months", months)
	}

	count := WindowCount(len(prices), months)
	if count == 0 {
		return WindowTally{}, bterrors.NewInsufficientDataError(component, op, "series too short for a single window").
			WithContext("periods", len(prices)).
			WithContext("months", months)
	}

	periodicAmount := amount / float64(months)
	tally := WindowTally{
		WindowMonths:   months,
		LumpSumReturns: make([]float64, 0, count),
		DCAReturns:     make([]float64, 0, count),
	}

	for _, start := range WindowStarts(len(prices), months) {
		window := Window(prices, start, months)

		lumpSum, err := EvaluateLumpSum(amount, window)
		if err != nil {
			return WindowTally{}, scopeToWindow(err, start, months)
		}
		dca, err := EvaluateDCA(periodicAmount, window)
		if err != nil {
			return WindowTally{}, scopeToWindow(err, start, months)
		}

		switch {
		case lumpSum.EndingValue > dca.EndingValue:
			tally.LumpSumWins++
		case lumpSum.EndingValue == dca.EndingValue:
			tally.Ties++
			tally.DCAWins++
		default:
			tally.DCAWins++
		}

		tally.LumpSumReturns = append(tally.LumpSumReturns, lumpSum.AnnualizedReturn)
		tally.DCAReturns = append(tally.DCAReturns, dca.AnnualizedReturn)
	}

	return tally, nil
}

func scopeToWindow(err error, start, months int) error {
	if btErr, ok := err.(*bterrors.BacktestError); ok {
		return btErr.WithContext("window_start", start).WithContext("window_months", months)
	}
	return bterrors.WrapError(err, bterrors.ErrorCategoryDegenerateWindow, component, "SimulateWindowMonths").
		WithContext("window_start", start).
		WithContext("window_months", months)
}
