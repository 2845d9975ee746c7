package data

import (
	"context"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/types"
)

// alpacaHistoryStart is earlier than any bar Alpaca serves
var alpacaHistoryStart = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// BarFetcher is the subset of the Alpaca market-data client the provider needs
type BarFetcher interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaConfig holds Alpaca market-data settings
type AlpacaConfig struct {
	APIKey    string
	APISecret string
	DataURL   string // optional override of the market-data base URL
	Feed      string // "sip" or "iex"
}

// AlpacaProvider loads split and dividend adjusted monthly bars
type AlpacaProvider struct {
	client BarFetcher
	feed   marketdata.Feed
	now    func() time.Time
}

// NewAlpacaClient creates a market-data client from config
func NewAlpacaClient(cfg AlpacaConfig) *marketdata.Client {
	opts := marketdata.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	}
	if cfg.DataURL != "" {
		opts.BaseURL = cfg.DataURL
	}
	return marketdata.NewClient(opts)
}

// NewAlpacaProvider creates an Alpaca provider
func NewAlpacaProvider(client BarFetcher, feed string) *AlpacaProvider {
	if feed == "" {
		feed = "iex"
	}
	return &AlpacaProvider{client: client, feed: marketdata.Feed(feed), now: time.Now}
}

// Name returns the name of the data provider
func (p *AlpacaProvider) Name() string {
	return "alpaca"
}

// LoadMonthly fetches every monthly bar of symbol from 1970 to now. The
// client pages internally.
func (p *AlpacaProvider) LoadMonthly(ctx context.Context, symbol string) ([]types.OHLCV, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bars, err := p.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.NewTimeFrame(1, marketdata.Month),
		Adjustment: marketdata.All,
		Start:      alpacaHistoryStart,
		End:        p.now(),
		Feed:       p.feed,
	})
	if err != nil {
		return nil, bterrors.NewDataSourceError(component, "LoadMonthly", err).
			WithContext("symbol", symbol).
			WithContext("feed", p.feed)
	}

	data := make([]types.OHLCV, 0, len(bars))
	for _, b := range bars {
		// adjustment=all makes Close the adjusted close
		data = append(data, types.OHLCV{
			Timestamp: b.Timestamp.UTC(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			AdjClose:  b.Close,
			Volume:    float64(b.Volume),
		})
	}
	return data, nil
}
