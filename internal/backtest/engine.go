package backtest

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/logger"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/types"
)

// Config is the immutable input of a run
type Config struct {
	Amount   float64
	Years    []int
	Workers  int  // >1 evaluates window lengths in parallel
	FailFast bool // abort on the first skipped window length
}

// Observer is notified of run progress, in report order
type Observer interface {
	WindowLengthEvaluated(summary YearSummary)
	WindowLengthSkipped(years int, err error)
	RunCompleted(elapsed time.Duration)
}

// YearResult holds either the summary or the reason a window length was skipped
type YearResult struct {
	Years   int
	Summary *YearSummary
	Err     error
}

// OK reports whether the window length produced a summary
func (r YearResult) OK() bool {
	return r.Err == nil && r.Summary != nil
}

// Report is the outcome of a run, one result per requested window length
type Report struct {
	Symbol  string
	Source  string
	Amount  float64
	Periods int
	Start   time.Time
	End     time.Time
	Results []YearResult
	Elapsed time.Duration
}

// Summaries returns the successful summaries in order
func (r *Report) Summaries() []YearSummary {
	out := make([]YearSummary, 0, len(r.Results))
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, *res.Summary)
		}
	}
	return out
}

// Skipped returns the window lengths that produced no summary
func (r *Report) Skipped() []YearResult {
	var out []YearResult
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Backtester runs lump-sum vs DCA comparisons. It holds no run state.
type Backtester struct {
	observer Observer
	log      logrus.FieldLogger
}

// Option configures a Backtester
type Option func(*Backtester)

// WithObserver attaches a progress observer
func WithObserver(o Observer) Option {
	return func(b *Backtester) { b.observer = o }
}

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(b *Backtester) { b.log = l }
}

// NewBacktester creates a backtester
func NewBacktester(opts ...Option) *Backtester {
	b := &Backtester{log: logger.Nop()}
	for _, opt := range opts {
		opt(b)
	}
	b.log = logger.Component(b.log, component)
	return b
}

// ValidateConfig checks the run configuration. Failures are INVALID_INPUT.
func ValidateConfig(cfg Config) error {
	const op = "ValidateConfig"

	if err := validateAmount(op, cfg.Amount); err != nil {
		return err
	}
	if len(cfg.Years) == 0 {
		return bterrors.NewInvalidInputError(component, op, "at least one window length is required")
	}
	for i, y := range cfg.Years {
		if y <= 0 {
			return bterrors.NewInvalidInputError(component, op, "window length must be positive").
				WithContext("index", i).
				WithContext("years", y)
		}
	}
	if cfg.Workers < 0 {
		return bterrors.NewInvalidInputError(component, op, "workers must not be negative").
			WithContext("workers", cfg.Workers)
	}
	return nil
}

// Run evaluates every requested window length over the series. Invalid input
// fails before any computation. Window lengths without valid windows are
// reported on their YearResult, or abort the run when cfg.FailFast is set.
func (b *Backtester) Run(ctx context.Context, cfg Config, series types.PriceSeries) (*Report, error) {
	started := time.Now()

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if series.Len() == 0 {
		return nil, bterrors.NewInvalidInputError(component, "Run", "price series is empty").
			WithContext("symbol", series.Symbol)
	}

	b.log.WithFields(logrus.Fields{
		"symbol":  series.Symbol,
		"periods": series.Len(),
		"years":   cfg.Years,
		"workers": cfg.Workers,
	}).Debug("starting backtest")

	var results []YearResult
	if cfg.Workers > 1 && len(cfg.Years) > 1 {
		results = evaluateParallel(ctx, cfg, series.Prices)
	} else {
		results = evaluateSequential(ctx, cfg, series.Prices)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, res := range results {
		if res.OK() {
			b.log.WithFields(logrus.Fields{
				"years":      res.Years,
				"windows":    res.Summary.Windows,
				"win_ratio":  res.Summary.LumpSumWinRatio,
				"lump_sum_%": res.Summary.AvgLumpSumReturn,
				"dca_%":      res.Summary.AvgDCAReturn,
			}).Debug("window length evaluated")
			if b.observer != nil {
				b.observer.WindowLengthEvaluated(*res.Summary)
			}
			continue
		}

		b.log.WithField("years", res.Years).WithError(res.Err).Warn("window length skipped")
		if b.observer != nil {
			b.observer.WindowLengthSkipped(res.Years, res.Err)
		}
		if cfg.FailFast {
			return nil, res.Err
		}
	}

	report := &Report{
		Symbol:  series.Symbol,
		Source:  series.Source,
		Amount:  cfg.Amount,
		Periods: series.Len(),
		Start:   series.Start(),
		End:     series.End(),
		Results: results,
		Elapsed: time.Since(started),
	}
	if b.observer != nil {
		b.observer.RunCompleted(report.Elapsed)
	}
	return report, nil
}

// Evaluate runs the core comparison on bare prices, without a series wrapper
func Evaluate(ctx context.Context, cfg Config, prices []float64) ([]YearResult, error) {
	report, err := NewBacktester().Run(ctx, cfg, types.PriceSeries{Prices: prices})
	if err != nil {
		return nil, err
	}
	return report.Results, nil
}

func evaluateSequential(ctx context.Context, cfg Config, prices []float64) []YearResult {
	results := make([]YearResult, 0, len(cfg.Years))
	for _, years := range cfg.Years {
		if ctx.Err() != nil {
			break
		}
		res := evaluateYear(cfg.Amount, prices, years)
		results = append(results, res)
		if cfg.FailFast && res.Err != nil {
			break
		}
	}
	return results
}

// evaluateYear runs simulation then summary for one window length
func evaluateYear(amount float64, prices []float64, years int) YearResult {
	tally, err := SimulateWindowLength(amount, prices, years)
	if err != nil {
		return YearResult{Years: years, Err: err}
	}
	summary, err := Summarize(years, tally)
	if err != nil {
		return YearResult{Years: years, Err: err}
	}
	return YearResult{Years: years, Summary: &summary}
}
