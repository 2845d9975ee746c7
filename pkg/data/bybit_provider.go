package data

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/exchange/bybit"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/logger"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/safety"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/types"
)

// KlineFetcher is the subset of the Bybit client the provider needs
type KlineFetcher interface {
	GetKlines(ctx context.Context, params bybit.KlineParams) ([]bybit.Kline, error)
}

// BybitProvider loads monthly klines, paging backwards until the venue has no
// older history.
type BybitProvider struct {
	client   KlineFetcher
	category string
	maxPages int
	limiter  *safety.RateLimiter
	log      logrus.FieldLogger
}

// NewBybitProvider creates a Bybit provider. An empty category means spot.
func NewBybitProvider(client KlineFetcher, category string, log logrus.FieldLogger) *BybitProvider {
	if category == "" {
		category = "spot"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &BybitProvider{
		client:   client,
		category: category,
		maxPages: 100,
		log:      logger.Component(log, component),
	}
}

// WithRateLimiter paces page requests through rl
func (p *BybitProvider) WithRateLimiter(rl *safety.RateLimiter) *BybitProvider {
	p.limiter = rl
	return p
}

// Name returns the name of the data provider
func (p *BybitProvider) Name() string {
	return "bybit"
}

// LoadMonthly fetches the full monthly history of symbol
func (p *BybitProvider) LoadMonthly(ctx context.Context, symbol string) ([]types.OHLCV, error) {
	const op = "LoadMonthly"

	var (
		data []types.OHLCV
		end  *time.Time
	)

	for page := 0; page < p.maxPages; page++ {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		klines, err := p.client.GetKlines(ctx, bybit.KlineParams{
			Category: p.category,
			Symbol:   symbol,
			Interval: bybit.Interval1M,
			End:      end,
			Limit:    bybit.MaxKlineLimit,
		})
		if err != nil {
			return nil, bterrors.NewDataSourceError(component, op, err).
				WithContext("symbol", symbol).
				WithContext("page", page)
		}
		if len(klines) == 0 {
			break
		}

		oldest := klines[0].StartTime
		for _, k := range klines {
			data = append(data, types.OHLCV{
				Timestamp: k.StartTime,
				Open:      k.OpenPrice,
				High:      k.HighPrice,
				Low:       k.LowPrice,
				Close:     k.ClosePrice,
				Volume:    k.Volume,
			})
			if k.StartTime.Before(oldest) {
				oldest = k.StartTime
			}
		}

		p.log.WithFields(logrus.Fields{
			"symbol": symbol,
			"page":   page,
			"bars":   len(klines),
			"oldest": oldest.Format("2006-01"),
		}).Debug("fetched kline page")

		if len(klines) < bybit.MaxKlineLimit {
			break
		}
		next := oldest.Add(-time.Millisecond)
		end = &next
	}

	return data, nil
}
