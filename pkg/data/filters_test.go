package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/types"
)

func bar(year int, month time.Month, day int, price float64) types.OHLCV {
	return types.OHLCV{
		Timestamp: time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Close:     price,
		AdjClose:  price,
	}
}

func TestDefaultDataFilter_DropIncomplete(t *testing.T) {
	f := NewDefaultDataFilter()
	data := []types.OHLCV{
		bar(2020, 1, 1, 10),
		bar(2020, 2, 1, 0),
		{Close: 5},
		{Timestamp: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), Close: 7},
		bar(2020, 4, 1, -2),
	}

	kept := f.DropIncomplete(data)
	require.Len(t, kept, 2)
	assert.Equal(t, 10.0, kept[0].Price())
	assert.Equal(t, 7.0, kept[1].Price())
}

func TestDefaultDataFilter_SortAndDedupe(t *testing.T) {
	f := NewDefaultDataFilter()
	data := []types.OHLCV{
		bar(2020, 3, 1, 3),
		bar(2020, 1, 1, 1),
		bar(2020, 2, 1, 2),
		bar(2020, 1, 1, 99),
	}

	sorted := f.SortByTimestamp(data)
	assert.Equal(t, 3.0, data[0].Close, "input is not modified")

	deduped := f.RemoveDuplicates(sorted)
	require.Len(t, deduped, 3)
	assert.Equal(t, []float64{1, 2, 3}, []float64{deduped[0].Close, deduped[1].Close, deduped[2].Close})
}

// TestDefaultDataFilter_ResampleMonthly tests that daily bars collapse to the
// last bar of each month
func TestDefaultDataFilter_ResampleMonthly(t *testing.T) {
	f := NewDefaultDataFilter()
	data := []types.OHLCV{
		bar(2021, 1, 4, 100),
		bar(2021, 1, 29, 105),
		bar(2021, 2, 1, 106),
		bar(2021, 2, 26, 110),
		bar(2021, 3, 31, 112),
	}

	monthly := f.ResampleMonthly(data)
	require.Len(t, monthly, 3)
	assert.Equal(t, 105.0, monthly[0].Close)
	assert.Equal(t, 110.0, monthly[1].Close)
	assert.Equal(t, 112.0, monthly[2].Close)
	assert.NoError(t, f.ValidateTimeSequence(monthly))

	// already monthly input is unchanged
	assert.Equal(t, monthly, f.ResampleMonthly(monthly))
}

func TestDefaultDataFilter_ValidateTimeSequence(t *testing.T) {
	f := NewDefaultDataFilter()

	assert.NoError(t, f.ValidateTimeSequence(nil))
	assert.Error(t, f.ValidateTimeSequence([]types.OHLCV{bar(2020, 2, 1, 1), bar(2020, 1, 1, 1)}))
	assert.Error(t, f.ValidateTimeSequence([]types.OHLCV{bar(2020, 1, 1, 1), bar(2020, 1, 1, 1)}))
	assert.Error(t, f.ValidateTimeSequence([]types.OHLCV{bar(2020, 1, 1, 1), bar(2020, 1, 15, 1)}))
}

func TestDefaultDataFilter_FilterByDateRange(t *testing.T) {
	f := NewDefaultDataFilter()
	data := []types.OHLCV{bar(2019, 12, 1, 1), bar(2020, 1, 1, 2), bar(2020, 2, 1, 3)}

	got := f.FilterByDateRange(data, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	assert.Len(t, got, 2)
}

func TestClosePrices_PrefersAdjusted(t *testing.T) {
	data := []types.OHLCV{
		{Timestamp: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Close: 10, AdjClose: 9.5},
		{Timestamp: time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC), Close: 11},
	}

	dates, prices := ClosePrices(data)
	assert.Equal(t, []float64{9.5, 11}, prices)
	assert.Len(t, dates, 2)
}
