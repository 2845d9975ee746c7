package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
)

// TestEvaluateLumpSum_WorkedExample checks the 10% monthly growth case
func TestEvaluateLumpSum_WorkedExample(t *testing.T) {
	res, err := EvaluateLumpSum(1_000_000, []float64{100, 110, 121, 133.1})
	require.NoError(t, err)

	assert.InDelta(t, 10000.0, res.SharesBought, 1e-9)
	assert.InDelta(t, 1_331_000.0, res.EndingValue, 1e-6)
	assert.InDelta(t, 1.357947691, res.AnnualizedReturn, 1e-9)
	assert.Equal(t, 100.0, res.AvgCostPerShare)
}

// TestEvaluateDCA_WorkedExample checks share accounting over three purchases
func TestEvaluateDCA_WorkedExample(t *testing.T) {
	periodic := 1_000_000.0 / 3
	res, err := EvaluateDCA(periodic, []float64{100, 110, 121})
	require.NoError(t, err)

	shares := periodic/100 + periodic/110 + periodic/121
	avgCost := periodic * 3 / shares
	totalReturn := (121 - avgCost) / avgCost

	assert.InDelta(t, shares, res.SharesBought, 1e-9)
	assert.InDelta(t, 1_103_333.33, res.EndingValue, 0.01)
	assert.InDelta(t, avgCost, res.AvgCostPerShare, 1e-9)
	assert.InDelta(t, math.Pow(1+totalReturn, 4)-1, res.AnnualizedReturn, 1e-9)
}

// TestEvaluate_FlatWindow tests that an unchanged price gives a zero return
func TestEvaluate_FlatWindow(t *testing.T) {
	prices := []float64{50, 80, 20, 50}

	lumpSum, err := EvaluateLumpSum(1000, prices)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, lumpSum.AnnualizedReturn, 1e-12)
	assert.InDelta(t, 1000.0, lumpSum.EndingValue, 1e-9)

	flat := []float64{100, 100, 100, 100}
	dca, err := EvaluateDCA(250, flat)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, dca.AnnualizedReturn, 1e-12)
	assert.InDelta(t, 1000.0, dca.EndingValue, 1e-9)
}

// TestEvaluateLumpSum_AnnualizesByYears tests a twelve month window
func TestEvaluateLumpSum_AnnualizesByYears(t *testing.T) {
	prices := make([]float64, 12)
	for i := range prices {
		prices[i] = 100
	}
	prices[11] = 150

	res, err := EvaluateLumpSum(1000, prices)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, res.AnnualizedReturn, 1e-12)
}

// TestEvaluate_SinglePrice tests a one period window
func TestEvaluate_SinglePrice(t *testing.T) {
	res, err := EvaluateLumpSum(1000, []float64{42})
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, res.EndingValue, 1e-9)
	assert.InDelta(t, 0.0, res.AnnualizedReturn, 1e-12)
}

// TestEvaluate_DegenerateWindows tests rejected prices and empty windows
func TestEvaluate_DegenerateWindows(t *testing.T) {
	cases := []struct {
		name   string
		prices []float64
	}{
		{"empty", nil},
		{"zero first price", []float64{0, 10, 20}},
		{"zero mid price", []float64{10, 0, 20}},
		{"negative price", []float64{10, -5, 20}},
		{"nan price", []float64{10, math.NaN(), 20}},
		{"infinite price", []float64{10, math.Inf(1), 20}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := EvaluateLumpSum(1000, tc.prices)
			assert.ErrorIs(t, err, bterrors.ErrDegenerateWindow)

			_, err = EvaluateDCA(100, tc.prices)
			assert.ErrorIs(t, err, bterrors.ErrDegenerateWindow)
		})
	}
}

// TestEvaluate_InvalidAmount tests that non-positive amounts are input errors
func TestEvaluate_InvalidAmount(t *testing.T) {
	for _, amount := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := EvaluateLumpSum(amount, []float64{1, 2})
		assert.ErrorIs(t, err, bterrors.ErrInvalidInput)

		_, err = EvaluateDCA(amount, []float64{1, 2})
		assert.ErrorIs(t, err, bterrors.ErrInvalidInput)
	}
}

// TestEvaluate_DoesNotMutateInput tests that windows are read-only
func TestEvaluate_DoesNotMutateInput(t *testing.T) {
	prices := []float64{100, 110, 121}
	snapshot := append([]float64(nil), prices...)

	_, err := EvaluateLumpSum(1000, prices)
	require.NoError(t, err)
	_, err = EvaluateDCA(100, prices)
	require.NoError(t, err)

	assert.Equal(t, snapshot, prices)
}
