package monitoring

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
)

const component = "monitoring"

// Strategy label values
const (
	StrategyLumpSum = "lump_sum"
	StrategyDCA     = "dca"
)

// Recorder collects run metrics on its own registry. It implements backtest.Observer.
type Recorder struct {
	registry *prometheus.Registry

	windowsEvaluated *prometheus.CounterVec
	lengthsSkipped   *prometheus.CounterVec
	winRatio         *prometheus.GaugeVec
	avgReturn        *prometheus.GaugeVec
	runDuration      prometheus.Gauge
}

var _ backtest.Observer = (*Recorder)(nil)

// NewRecorder creates a recorder and registers its collectors
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		windowsEvaluated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backtest_windows_evaluated_total",
				Help: "Total number of rolling windows evaluated",
			},
			[]string{"years"},
		),

		lengthsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backtest_window_lengths_skipped_total",
				Help: "Window lengths that produced no summary",
			},
			[]string{"reason"},
		),

		winRatio: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "backtest_lump_sum_win_ratio",
				Help: "Percentage of windows won by lump-sum",
			},
			[]string{"years"},
		),

		avgReturn: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "backtest_avg_annualized_return_percent",
				Help: "Average annualized return per strategy",
			},
			[]string{"years", "strategy"},
		),

		runDuration: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "backtest_run_duration_seconds",
				Help: "Wall time of the last backtest run",
			},
		),
	}

	r.registry.MustRegister(
		r.windowsEvaluated,
		r.lengthsSkipped,
		r.winRatio,
		r.avgReturn,
		r.runDuration,
	)
	return r
}

// Registry exposes the recorder's registry
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WindowLengthEvaluated records one summary
func (r *Recorder) WindowLengthEvaluated(summary backtest.YearSummary) {
	years := strconv.Itoa(summary.Years)
	r.windowsEvaluated.WithLabelValues(years).Add(float64(summary.Windows))
	r.winRatio.WithLabelValues(years).Set(summary.LumpSumWinRatio)
	r.avgReturn.WithLabelValues(years, StrategyLumpSum).Set(summary.AvgLumpSumReturn)
	r.avgReturn.WithLabelValues(years, StrategyDCA).Set(summary.AvgDCAReturn)
}

// WindowLengthSkipped counts a skipped window length by error category
func (r *Recorder) WindowLengthSkipped(_ int, err error) {
	reason := string(bterrors.CategoryOf(err))
	if reason == "" {
		reason = "unknown"
	}
	r.lengthsSkipped.WithLabelValues(reason).Inc()
}

// RunCompleted records the run duration
func (r *Recorder) RunCompleted(elapsed time.Duration) {
	r.runDuration.Set(elapsed.Seconds())
}

// Push replaces the job's metric group on a Pushgateway
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	err := push.New(url, job).
		Gatherer(r.registry).
		PushContext(ctx)
	if err != nil {
		return bterrors.NewReportError(component, "Push", err).
			WithContext("url", url).
			WithContext("job", job)
	}
	return nil
}
