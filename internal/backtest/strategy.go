package backtest

import (
	"math"

	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
)

const (
	component = "backtest"

	// MonthsPerYear converts window lengths in years to periods
	MonthsPerYear = 12
)

// StrategyResult is the outcome of one strategy over one window
type StrategyResult struct {
	EndingValue      float64
	AnnualizedReturn float64 // fractional, 0.07 = 7%
	SharesBought     float64
	AvgCostPerShare  float64
}

// EvaluateLumpSum invests amount at the first price of the window and holds
// to the last one.
func EvaluateLumpSum(amount float64, prices []float64) (StrategyResult, error) {
	const op = "EvaluateLumpSum"

	if err := validateAmount(op, amount); err != nil {
		return StrategyResult{}, err
	}
	if err := validateWindow(op, prices); err != nil {
		return StrategyResult{}, err
	}

	shares := amount / prices[0]
	endingValue := shares * prices[len(prices)-1]

	annualized, err := annualize(op, endingValue/amount, len(prices))
	if err != nil {
		return StrategyResult{}, err
	}

	return StrategyResult{
		EndingValue:      endingValue,
		AnnualizedReturn: annualized,
		SharesBought:     shares,
		AvgCostPerShare:  prices[0],
	}, nil
}

// EvaluateDCA invests periodicAmount at every price of the window. The average
// cost is total capital deployed over total shares acquired.
func EvaluateDCA(periodicAmount float64, prices []float64) (StrategyResult, error) {
	const op = "EvaluateDCA"

	if err := validateAmount(op, periodicAmount); err != nil {
		return StrategyResult{}, err
	}
	if err := validateWindow(op, prices); err != nil {
		return StrategyResult{}, err
	}

	totalShares := 0.0
	for _, price := range prices {
		totalShares += periodicAmount / price
	}

	avgCost := periodicAmount * float64(len(prices)) / totalShares
	finalPrice := prices[len(prices)-1]
	endingValue := totalShares * finalPrice
	totalReturn := (finalPrice - avgCost) / avgCost

	if !isFinite(avgCost) || !isFinite(endingValue) || !isFinite(totalReturn) {
		return StrategyResult{}, bterrors.NewDegenerateWindowError(component, op, "non-finite share accounting").
			WithContext("total_shares", totalShares)
	}

	annualized, err := annualize(op, 1+totalReturn, len(prices))
	if err != nil {
		return StrategyResult{}, err
	}

	return StrategyResult{
		EndingValue:      endingValue,
		AnnualizedReturn: annualized,
		SharesBought:     totalShares,
		AvgCostPerShare:  avgCost,
	}, nil
}

// annualize converts a growth multiple over months periods to a yearly rate
func annualize(op string, growth float64, months int) (float64, error) {
	if months <= 0 {
		return 0, bterrors.NewDegenerateWindowError(component, op, "window has no periods")
	}
	// a fractional power of a non-positive base is undefined
	if !(growth > 0) || math.IsInf(growth, 0) {
		return 0, bterrors.NewDegenerateWindowError(component, op, "growth multiple must be positive and finite").
			WithContext("growth", growth)
	}

	years := float64(months) / MonthsPerYear
	rate := math.Pow(growth, 1/years) - 1
	if !isFinite(rate) {
		return 0, bterrors.NewDegenerateWindowError(component, op, "annualized return is not finite").
			WithContext("growth", growth).
			WithContext("months", months)
	}
	return rate, nil
}

func validateAmount(op string, amount float64) error {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return bterrors.NewInvalidInputError(component, op, "amount must be positive and finite").
			WithContext("amount", amount)
	}
	return nil
}

func validateWindow(op string, prices []float64) error {
	if len(prices) == 0 {
		return bterrors.NewDegenerateWindowError(component, op, "empty price window")
	}
	for i, price := range prices {
		if !(price > 0) || math.IsInf(price, 0) {
			return bterrors.NewDegenerateWindowError(component, op, "price must be positive and finite").
				WithContext("index", i).
				WithContext("price", price)
		}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
