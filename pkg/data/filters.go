package data

import (
	"fmt"
	"sort"
	"time"

	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/types"
)

// DefaultDataFilter implements DataFilter. Every method returns a new slice.
type DefaultDataFilter struct{}

// NewDefaultDataFilter creates a new default data filter
func NewDefaultDataFilter() *DefaultDataFilter {
	return &DefaultDataFilter{}
}

// DropIncomplete removes bars without a usable positive price
func (f *DefaultDataFilter) DropIncomplete(data []types.OHLCV) []types.OHLCV {
	filtered := make([]types.OHLCV, 0, len(data))
	for _, candle := range data {
		if candle.Timestamp.IsZero() || !(candle.Price() > 0) || !(candle.Close > 0) {
			continue
		}
		filtered = append(filtered, candle)
	}
	return filtered
}

// SortByTimestamp sorts data by timestamp (ascending order)
func (f *DefaultDataFilter) SortByTimestamp(data []types.OHLCV) []types.OHLCV {
	sorted := make([]types.OHLCV, len(data))
	copy(sorted, data)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// RemoveDuplicates removes duplicate timestamps, keeping the first occurrence
func (f *DefaultDataFilter) RemoveDuplicates(data []types.OHLCV) []types.OHLCV {
	filtered := make([]types.OHLCV, 0, len(data))
	seen := make(map[int64]bool, len(data))

	for _, candle := range data {
		ts := candle.Timestamp.UnixMilli()
		if seen[ts] {
			continue
		}
		seen[ts] = true
		filtered = append(filtered, candle)
	}
	return filtered
}

// ResampleMonthly keeps the last bar of each calendar month (UTC). Input must
// be sorted. Monthly input passes through unchanged.
func (f *DefaultDataFilter) ResampleMonthly(data []types.OHLCV) []types.OHLCV {
	resampled := make([]types.OHLCV, 0, len(data))
	for _, candle := range data {
		n := len(resampled)
		if n > 0 && sameMonth(resampled[n-1].Timestamp, candle.Timestamp) {
			resampled[n-1] = candle
			continue
		}
		resampled = append(resampled, candle)
	}
	return resampled
}

// FilterByDateRange filters data to [start, end]. A zero bound is open.
func (f *DefaultDataFilter) FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV {
	filtered := make([]types.OHLCV, 0, len(data))
	for _, candle := range data {
		if !start.IsZero() && candle.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && candle.Timestamp.After(end) {
			continue
		}
		filtered = append(filtered, candle)
	}
	return filtered
}

// ValidateTimeSequence ensures data is strictly chronological with one bar per month
func (f *DefaultDataFilter) ValidateTimeSequence(data []types.OHLCV) error {
	for i := 1; i < len(data); i++ {
		prev, cur := data[i-1].Timestamp, data[i].Timestamp
		if !cur.After(prev) {
			return fmt.Errorf("data not in chronological order at index %d: %s is not after %s",
				i, cur.Format(time.RFC3339), prev.Format(time.RFC3339))
		}
		if sameMonth(prev, cur) {
			return fmt.Errorf("more than one bar for %s at index %d", cur.Format("2006-01"), i)
		}
	}
	return nil
}

// ClosePrices extracts the adjusted close of each bar, falling back to close
func ClosePrices(data []types.OHLCV) ([]time.Time, []float64) {
	dates := make([]time.Time, len(data))
	prices := make([]float64, len(data))
	for i, candle := range data {
		dates[i] = candle.Timestamp
		prices[i] = candle.Price()
	}
	return dates, prices
}

func sameMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}
