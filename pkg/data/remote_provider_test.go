package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/exchange/bybit"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/safety"
)

// fakeKlineFetcher serves klines newest first, honouring End and Limit
type fakeKlineFetcher struct {
	klines []bybit.Kline // oldest first
	calls  []bybit.KlineParams
	err    error
}

func (f *fakeKlineFetcher) GetKlines(_ context.Context, params bybit.KlineParams) ([]bybit.Kline, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}

	var page []bybit.Kline
	for i := len(f.klines) - 1; i >= 0 && len(page) < params.Limit; i-- {
		k := f.klines[i]
		if params.End != nil && k.StartTime.After(*params.End) {
			continue
		}
		page = append(page, k)
	}
	return page, nil
}

func generateKlines(count int) []bybit.Kline {
	start := time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)
	klines := make([]bybit.Kline, count)
	for i := range klines {
		price := 100 + float64(i)
		klines[i] = bybit.Kline{
			StartTime:  start.AddDate(0, i, 0),
			OpenPrice:  price,
			HighPrice:  price,
			LowPrice:   price,
			ClosePrice: price,
		}
	}
	return klines
}

// TestBybitProvider_PagesBackwards tests that history longer than one page is
// fully fetched
func TestBybitProvider_PagesBackwards(t *testing.T) {
	fetcher := &fakeKlineFetcher{klines: generateKlines(2500)}

	data, err := NewBybitProvider(fetcher, "", nil).LoadMonthly(context.Background(), "BTCUSDT")
	require.NoError(t, err)

	assert.Len(t, data, 2500)
	require.Len(t, fetcher.calls, 3)
	assert.Nil(t, fetcher.calls[0].End)
	assert.Equal(t, bybit.Interval1M, fetcher.calls[0].Interval)
	assert.Equal(t, "spot", fetcher.calls[0].Category)
	require.NotNil(t, fetcher.calls[1].End)
	assert.True(t, fetcher.calls[1].End.Before(generateKlines(2500)[1500].StartTime))

	series, err := LoadPriceSeries(context.Background(), NewBybitProvider(&fakeKlineFetcher{klines: generateKlines(2500)}, "", nil), "BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, 2500, series.Len())
	assert.Equal(t, 100.0, series.Prices[0])
}

func TestBybitProvider_Error(t *testing.T) {
	fetcher := &fakeKlineFetcher{err: bybit.NewBybitError(bybit.ErrCodeSymbolNotFound, "not supported symbols")}

	_, err := NewBybitProvider(fetcher, "linear", nil).LoadMonthly(context.Background(), "NOPE")
	assert.ErrorIs(t, err, bterrors.ErrDataSource)

	var bybitErr *bybit.BybitError
	assert.ErrorAs(t, err, &bybitErr)
}

func TestBybitProvider_RateLimited(t *testing.T) {
	limiter := safety.NewRateLimiter("test", 1, 1)
	require.True(t, limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &fakeKlineFetcher{klines: generateKlines(10)}
	_, err := NewBybitProvider(fetcher, "", nil).WithRateLimiter(limiter).LoadMonthly(ctx, "BTCUSDT")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fetcher.calls, "no request is sent without a token")
}

type fakeBarFetcher struct {
	bars []marketdata.Bar
	req  marketdata.GetBarsRequest
	err  error
}

func (f *fakeBarFetcher) GetBars(_ string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	f.req = req
	return f.bars, f.err
}

// TestAlpacaProvider tests the monthly adjusted request and bar conversion
func TestAlpacaProvider(t *testing.T) {
	fetcher := &fakeBarFetcher{bars: []marketdata.Bar{
		{Timestamp: time.Date(2024, time.January, 1, 5, 0, 0, 0, time.UTC), Open: 400, High: 430, Low: 395, Close: 425, Volume: 1000},
		{Timestamp: time.Date(2024, time.February, 1, 5, 0, 0, 0, time.UTC), Open: 425, High: 440, Low: 410, Close: 438, Volume: 2000},
	}}

	p := NewAlpacaProvider(fetcher, "")
	data, err := p.LoadMonthly(context.Background(), "QQQ")
	require.NoError(t, err)

	require.Len(t, data, 2)
	assert.Equal(t, 438.0, data[1].AdjClose)
	assert.Equal(t, 2000.0, data[1].Volume)
	assert.Equal(t, marketdata.NewTimeFrame(1, marketdata.Month), fetcher.req.TimeFrame)
	assert.Equal(t, marketdata.All, fetcher.req.Adjustment)
	assert.Equal(t, 1970, fetcher.req.Start.Year())
	assert.Equal(t, "alpaca", p.Name())
}

func TestAlpacaProvider_Error(t *testing.T) {
	_, err := NewAlpacaProvider(&fakeBarFetcher{err: errors.New("forbidden")}, "sip").LoadMonthly(context.Background(), "QQQ")
	assert.ErrorIs(t, err, bterrors.ErrDataSource)
}
