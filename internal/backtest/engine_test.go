package backtest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/types"
)

type recordingObserver struct {
	mu        sync.Mutex
	evaluated []int
	skipped   []int
	completed int
}

func (o *recordingObserver) WindowLengthEvaluated(s YearSummary) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.evaluated = append(o.evaluated, s.Years)
}

func (o *recordingObserver) WindowLengthSkipped(years int, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skipped = append(o.skipped, years)
}

func (o *recordingObserver) RunCompleted(time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completed++
}

// generateTestSeries builds a monthly series with a mild trend and a wobble
func generateTestSeries(count int) types.PriceSeries {
	dates := make([]time.Time, count)
	prices := make([]float64, count)
	start := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	price := 100.0
	for i := 0; i < count; i++ {
		dates[i] = start.AddDate(0, i, 0)
		if i%5 == 4 {
			price *= 0.96
		} else {
			price *= 1.015
		}
		prices[i] = price
	}

	return types.PriceSeries{Symbol: "TEST", Source: "memory", Dates: dates, Prices: prices}
}

// TestBacktester_Run tests a full run over two window lengths
func TestBacktester_Run(t *testing.T) {
	series := generateTestSeries(120)
	obs := &recordingObserver{}

	report, err := NewBacktester(WithObserver(obs)).Run(context.Background(), Config{
		Amount: 10_000_000,
		Years:  []int{1, 5},
	}, series)
	require.NoError(t, err)

	assert.Equal(t, "TEST", report.Symbol)
	assert.Equal(t, "memory", report.Source)
	assert.Equal(t, 120, report.Periods)
	assert.Equal(t, series.Dates[0], report.Start)
	assert.Equal(t, series.Dates[119], report.End)

	require.Len(t, report.Results, 2)
	summaries := report.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[0].Years)
	assert.Equal(t, 108, summaries[0].Windows)
	assert.Equal(t, 5, summaries[1].Years)
	assert.Equal(t, 60, summaries[1].Windows)
	assert.Empty(t, report.Skipped())

	assert.Equal(t, []int{1, 5}, obs.evaluated)
	assert.Equal(t, 1, obs.completed)
}

// TestBacktester_Run_SkipsShortWindowLengths tests that a window length longer
// than the series does not stop the others
func TestBacktester_Run_SkipsShortWindowLengths(t *testing.T) {
	obs := &recordingObserver{}

	report, err := NewBacktester(WithObserver(obs)).Run(context.Background(), Config{
		Amount: 1000,
		Years:  []int{1, 20, 2},
	}, generateTestSeries(60))
	require.NoError(t, err)

	require.Len(t, report.Results, 3)
	assert.True(t, report.Results[0].OK())
	assert.False(t, report.Results[1].OK())
	assert.ErrorIs(t, report.Results[1].Err, bterrors.ErrInsufficientData)
	assert.True(t, report.Results[2].OK())

	assert.Len(t, report.Summaries(), 2)
	require.Len(t, report.Skipped(), 1)
	assert.Equal(t, 20, report.Skipped()[0].Years)

	assert.Equal(t, []int{1, 2}, obs.evaluated)
	assert.Equal(t, []int{20}, obs.skipped)
}

// TestBacktester_Run_DegeneratePriceIsScoped tests that a bad price skips a
// window length without failing the run
func TestBacktester_Run_DegeneratePriceIsScoped(t *testing.T) {
	series := generateTestSeries(40)
	cfg := Config{Amount: 1000, Years: []int{1, 3, 4}}

	// the final period is never inside a window
	series.Prices[39] = 0
	report, err := NewBacktester().Run(context.Background(), cfg, series)
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.True(t, report.Results[0].OK())
	assert.True(t, report.Results[1].OK())
	assert.ErrorIs(t, report.Results[2].Err, bterrors.ErrInsufficientData)

	series.Prices[10] = 0
	report, err = NewBacktester().Run(context.Background(), cfg, series)
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.ErrorIs(t, report.Results[0].Err, bterrors.ErrDegenerateWindow)
	assert.ErrorIs(t, report.Results[1].Err, bterrors.ErrDegenerateWindow)
	assert.ErrorIs(t, report.Results[2].Err, bterrors.ErrInsufficientData)
	assert.Empty(t, report.Summaries())
}

// TestBacktester_Run_FailFast tests that the first skipped window length aborts
func TestBacktester_Run_FailFast(t *testing.T) {
	_, err := NewBacktester().Run(context.Background(), Config{
		Amount:   1000,
		Years:    []int{1, 20, 2},
		FailFast: true,
	}, generateTestSeries(60))

	assert.ErrorIs(t, err, bterrors.ErrInsufficientData)
}

// TestBacktester_Run_InvalidInput tests validation before any computation
func TestBacktester_Run_InvalidInput(t *testing.T) {
	series := generateTestSeries(60)
	b := NewBacktester()
	ctx := context.Background()

	cases := []struct {
		name   string
		cfg    Config
		series types.PriceSeries
	}{
		{"zero amount", Config{Amount: 0, Years: []int{1}}, series},
		{"negative amount", Config{Amount: -5, Years: []int{1}}, series},
		{"no years", Config{Amount: 1000}, series},
		{"zero years", Config{Amount: 1000, Years: []int{1, 0}}, series},
		{"negative workers", Config{Amount: 1000, Years: []int{1}, Workers: -1}, series},
		{"empty series", Config{Amount: 1000, Years: []int{1}}, types.PriceSeries{Symbol: "EMPTY"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := b.Run(ctx, tc.cfg, tc.series)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, bterrors.ErrInvalidInput)
			assert.True(t, bterrors.CategoryOf(err) == bterrors.ErrorCategoryInvalidInput)
		})
	}
}

// TestBacktester_Run_ParallelPreservesOrder tests that worker count does not
// change the report
func TestBacktester_Run_ParallelPreservesOrder(t *testing.T) {
	series := generateTestSeries(240)
	years := []int{15, 1, 10, 3, 25, 5}

	sequential, err := NewBacktester().Run(context.Background(), Config{Amount: 5000, Years: years}, series)
	require.NoError(t, err)

	obs := &recordingObserver{}
	parallel, err := NewBacktester(WithObserver(obs)).Run(context.Background(), Config{
		Amount:  5000,
		Years:   years,
		Workers: 4,
	}, series)
	require.NoError(t, err)

	assert.Equal(t, sequential.Results, parallel.Results)
	for i, res := range parallel.Results {
		assert.Equal(t, years[i], res.Years)
	}
	assert.Equal(t, []int{15, 1, 10, 3, 5}, obs.evaluated)
	assert.Equal(t, []int{25}, obs.skipped)
}

// TestBacktester_Run_Cancelled tests that a cancelled context aborts the run
func TestBacktester_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBacktester().Run(ctx, Config{Amount: 1000, Years: []int{1, 2}}, generateTestSeries(60))
	assert.ErrorIs(t, err, context.Canceled)
}

// TestEvaluate tests the bare price entry point
func TestEvaluate(t *testing.T) {
	results, err := Evaluate(context.Background(), Config{Amount: 1_000_000, Years: []int{1}}, generateTestSeries(13).Prices)
	require.NoError(t, err)

	require.Len(t, results, 1)
	require.True(t, results[0].OK())
	assert.Equal(t, 1, results[0].Summary.Windows)

	_, err = Evaluate(context.Background(), Config{Amount: 1000, Years: []int{1}}, nil)
	assert.ErrorIs(t, err, bterrors.ErrInvalidInput)
}
