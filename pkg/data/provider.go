package data

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/exchange/bybit"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/logger"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/safety"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/types"
)

// Source kinds
const (
	SourceCSV     = "csv"
	SourceParquet = "parquet"
	SourceBybit   = "bybit"
	SourceAlpaca  = "alpaca"
)

// bybitRequestsPerSecond stays well under the public market-data limit
const bybitRequestsPerSecond = 10

// SourceKinds lists every supported kind
var SourceKinds = []string{SourceCSV, SourceParquet, SourceBybit, SourceAlpaca}

// SourceConfig selects and configures a price source
type SourceConfig struct {
	Kind     string
	Path     string // file or directory for csv and parquet
	DataRoot string // searched when Path is empty

	BybitAPIKey    string
	BybitAPISecret string
	BybitCategory  string
	BybitTestnet   bool

	Alpaca AlpacaConfig
}

// IsKnownSource reports whether kind names a supported source
func IsKnownSource(kind string) bool {
	for _, k := range SourceKinds {
		if strings.EqualFold(k, kind) {
			return true
		}
	}
	return false
}

// NewPriceSource builds the source for cfg.Kind, wrapped in a cache
func NewPriceSource(cfg SourceConfig, symbol string, log logrus.FieldLogger) (*CachedProvider, error) {
	const op = "NewPriceSource"

	if log == nil {
		log = logger.Nop()
	}

	var src PriceSource
	switch strings.ToLower(cfg.Kind) {
	case SourceCSV, SourceParquet:
		path, err := resolvePath(cfg, symbol)
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(cfg.Kind, SourceCSV) {
			src = NewCSVProvider(path).WithLogger(log)
		} else {
			src = NewParquetProvider(path)
		}
	case SourceBybit:
		client := bybit.NewClient(bybit.Config{
			APIKey:    cfg.BybitAPIKey,
			APISecret: cfg.BybitAPISecret,
			Testnet:   cfg.BybitTestnet,
		})
		src = NewBybitProvider(client, cfg.BybitCategory, log).
			WithRateLimiter(safety.NewRateLimiter("bybit-market", bybitRequestsPerSecond, bybitRequestsPerSecond))
	case SourceAlpaca:
		if cfg.Alpaca.APIKey == "" || cfg.Alpaca.APISecret == "" {
			return nil, bterrors.NewConfigurationError(component, op, "alpaca source requires ALPACA_API_KEY and ALPACA_API_SECRET")
		}
		src = NewAlpacaProvider(NewAlpacaClient(cfg.Alpaca), cfg.Alpaca.Feed)
	default:
		return nil, bterrors.NewConfigurationError(component, op, "unknown price source").
			WithContext("kind", cfg.Kind).
			WithContext("supported", strings.Join(SourceKinds, "|"))
	}

	return NewCachedProvider(src).WithLogger(log), nil
}

func resolvePath(cfg SourceConfig, symbol string) (string, error) {
	if cfg.Path != "" {
		return cfg.Path, nil
	}
	if cfg.DataRoot != "" {
		if path := NewDefaultFileLocator().FindDataFile(cfg.DataRoot, strings.ToLower(cfg.Kind), symbol); path != "" {
			return path, nil
		}
	}
	return "", bterrors.NewConfigurationError(component, "NewPriceSource", "no data file for symbol").
		WithContext("kind", cfg.Kind).
		WithContext("symbol", symbol).
		WithContext("data_root", cfg.DataRoot)
}

// LoadMonthlyBars fetches symbol and returns its cleaned, validated monthly bars
func LoadMonthlyBars(ctx context.Context, src PriceSource, symbol string) ([]types.OHLCV, error) {
	const op = "LoadMonthlyBars"

	raw, err := src.LoadMonthly(ctx, symbol)
	if err != nil {
		if bterrors.CategoryOf(err) != "" {
			return nil, err
		}
		return nil, bterrors.NewDataSourceError(component, op, err).
			WithContext("source", src.Name()).
			WithContext("symbol", symbol)
	}

	f := NewDefaultDataFilter()
	bars := f.DropIncomplete(raw)
	bars = f.SortByTimestamp(bars)
	bars = f.RemoveDuplicates(bars)
	bars = f.ResampleMonthly(bars)

	if err := f.ValidateTimeSequence(bars); err != nil {
		return nil, bterrors.NewDataSourceError(component, op, err).
			WithContext("source", src.Name()).
			WithContext("symbol", symbol)
	}
	if len(bars) == 0 {
		return nil, bterrors.NewDataSourceError(component, op,
			fmt.Errorf("no usable bars (%d raw)", len(raw))).
			WithContext("source", src.Name()).
			WithContext("symbol", symbol)
	}
	return bars, nil
}

// LoadPriceSeries fetches, cleans and validates the monthly series of symbol
func LoadPriceSeries(ctx context.Context, src PriceSource, symbol string) (types.PriceSeries, error) {
	bars, err := LoadMonthlyBars(ctx, src, symbol)
	if err != nil {
		return types.PriceSeries{}, err
	}

	dates, prices := ClosePrices(bars)
	return types.PriceSeries{
		Symbol: symbol,
		Source: src.Name(),
		Dates:  dates,
		Prices: prices,
	}, nil
}
