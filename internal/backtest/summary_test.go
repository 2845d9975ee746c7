package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
)

func TestSummarize(t *testing.T) {
	tally := WindowTally{
		WindowMonths:   60,
		LumpSumWins:    3,
		DCAWins:        1,
		Ties:           1,
		LumpSumReturns: []float64{0.10, 0.20, 0.05, -0.03},
		DCAReturns:     []float64{0.08, 0.15, 0.04, -0.01},
	}

	s, err := Summarize(5, tally)
	require.NoError(t, err)

	assert.Equal(t, 5, s.Years)
	assert.Equal(t, 60, s.WindowMonths)
	assert.Equal(t, 4, s.Windows)
	assert.Equal(t, 3, s.LumpSumWins)
	assert.Equal(t, 1, s.DCAWins)
	assert.Equal(t, 1, s.Ties)
	assert.InDelta(t, 75.0, s.LumpSumWinRatio, 1e-12)
	assert.InDelta(t, 25.0, s.DCAWinRatio(), 1e-12)
	assert.InDelta(t, 8.0, s.AvgLumpSumReturn, 1e-9)
	assert.InDelta(t, 6.5, s.AvgDCAReturn, 1e-9)
	assert.Equal(t, s.AvgLumpSumReturn, s.LumpSumStats.Mean)
	assert.InDelta(t, -3.0, s.LumpSumStats.Min, 1e-9)
	assert.InDelta(t, 15.0, s.DCAStats.Max, 1e-9)
}

// TestSummarize_RatioBounds tests the extremes of the win ratio
func TestSummarize_RatioBounds(t *testing.T) {
	allLumpSum, err := Summarize(1, WindowTally{
		LumpSumWins:    2,
		LumpSumReturns: []float64{0.1, 0.1},
		DCAReturns:     []float64{0.05, 0.05},
	})
	require.NoError(t, err)
	assert.Equal(t, 100.0, allLumpSum.LumpSumWinRatio)
	assert.Equal(t, 12, allLumpSum.WindowMonths)

	allDCA, err := Summarize(1, WindowTally{
		DCAWins:        2,
		LumpSumReturns: []float64{0.01, 0.01},
		DCAReturns:     []float64{0.05, 0.05},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, allDCA.LumpSumWinRatio)
}

// TestSummarize_Errors tests rejected tallies
func TestSummarize_Errors(t *testing.T) {
	_, err := Summarize(5, WindowTally{})
	assert.ErrorIs(t, err, bterrors.ErrInsufficientData)

	_, err = Summarize(5, WindowTally{LumpSumWins: -1, DCAWins: 2})
	assert.ErrorIs(t, err, bterrors.ErrInvalidInput)

	_, err = Summarize(5, WindowTally{
		LumpSumWins:    2,
		LumpSumReturns: []float64{0.1},
		DCAReturns:     []float64{0.1, 0.2},
	})
	assert.ErrorIs(t, err, bterrors.ErrInvalidInput)
}

// TestSummarize_FromSimulation tests the ratio against a simulated tally
func TestSummarize_FromSimulation(t *testing.T) {
	prices := []float64{
		100, 90, 95, 105, 98, 110, 115, 108, 120, 125, 118, 130,
		128, 135, 122, 140, 138, 145, 150, 142, 155, 160, 152, 165,
	}

	tally, err := SimulateWindowLength(1200, prices, 1)
	require.NoError(t, err)
	s, err := Summarize(1, tally)
	require.NoError(t, err)

	assert.Equal(t, 12, s.Windows)
	assert.GreaterOrEqual(t, s.LumpSumWinRatio, 0.0)
	assert.LessOrEqual(t, s.LumpSumWinRatio, 100.0)
	assert.InDelta(t, float64(s.LumpSumWins)/12*100, s.LumpSumWinRatio, 1e-12)
}
