package types

import "time"

// OHLCV is one bar as delivered by a price source. AdjClose is zero when the
// source does not publish an adjusted close.
type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	AdjClose  float64
	Volume    float64
	Timestamp time.Time
}

// Price returns the adjusted close when present, otherwise the close
func (c OHLCV) Price() float64 {
	if c.AdjClose > 0 {
		return c.AdjClose
	}
	return c.Close
}

// PriceSeries is a clean, chronological series with one price per month, ready for the
// backtester. Dates and Prices have equal length.
type PriceSeries struct {
	Symbol string
	Source string
	Dates  []time.Time
	Prices []float64
}

// Len returns the number of periods in the series
func (s PriceSeries) Len() int {
	return len(s.Prices)
}

// Start returns the first period, or the zero time for an empty series
func (s PriceSeries) Start() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[0]
}

// End returns the last period, or the zero time for an empty series
func (s PriceSeries) End() time.Time {
	if len(s.Dates) == 0 {
		return time.Time{}
	}
	return s.Dates[len(s.Dates)-1]
}
