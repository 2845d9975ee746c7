package monitoring

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/types"
)

func sampleSummary(years int) backtest.YearSummary {
	return backtest.YearSummary{
		Years:            years,
		Windows:          120,
		LumpSumWins:      84,
		DCAWins:          36,
		AvgLumpSumReturn: 11.5,
		AvgDCAReturn:     8.25,
		LumpSumWinRatio:  70,
	}
}

func backtestSeries(prices []float64) types.PriceSeries {
	return types.PriceSeries{Symbol: "TEST", Source: "memory", Prices: prices}
}

func TestRecorder_WindowLengthEvaluated(t *testing.T) {
	r := NewRecorder()

	r.WindowLengthEvaluated(sampleSummary(5))
	r.WindowLengthEvaluated(sampleSummary(10))

	assert.Equal(t, 120.0, testutil.ToFloat64(r.windowsEvaluated.WithLabelValues("5")))
	assert.Equal(t, 70.0, testutil.ToFloat64(r.winRatio.WithLabelValues("10")))
	assert.Equal(t, 11.5, testutil.ToFloat64(r.avgReturn.WithLabelValues("5", StrategyLumpSum)))
	assert.Equal(t, 8.25, testutil.ToFloat64(r.avgReturn.WithLabelValues("5", StrategyDCA)))
	assert.Equal(t, 2, testutil.CollectAndCount(r.winRatio))
}

func TestRecorder_WindowLengthSkipped(t *testing.T) {
	r := NewRecorder()

	r.WindowLengthSkipped(30, bterrors.NewInsufficientDataError("backtest", "SimulateWindowLength", "too short"))
	r.WindowLengthSkipped(40, bterrors.NewInsufficientDataError("backtest", "SimulateWindowLength", "too short"))
	r.WindowLengthSkipped(5, io.EOF)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.lengthsSkipped.WithLabelValues(string(bterrors.ErrorCategoryInsufficientData))))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.lengthsSkipped.WithLabelValues("unknown")))
}

func TestRecorder_RunCompleted(t *testing.T) {
	r := NewRecorder()
	r.RunCompleted(1500 * time.Millisecond)

	expected := `
# HELP backtest_run_duration_seconds Wall time of the last backtest run
# TYPE backtest_run_duration_seconds gauge
backtest_run_duration_seconds 1.5
`
	assert.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "backtest_run_duration_seconds"))
}

func TestRecorder_AsObserver(t *testing.T) {
	r := NewRecorder()
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	_, err := backtest.NewBacktester(backtest.WithObserver(r)).Run(context.Background(),
		backtest.Config{Amount: 1000, Years: []int{1, 5}},
		backtestSeries(prices))
	require.NoError(t, err)

	assert.Equal(t, 28.0, testutil.ToFloat64(r.windowsEvaluated.WithLabelValues("1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.lengthsSkipped.WithLabelValues(string(bterrors.ErrorCategoryInsufficientData))))
}

func TestRecorder_Push(t *testing.T) {
	var method, path, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		method = req.Method
		path = req.URL.Path
		raw, _ := io.ReadAll(req.Body)
		body = string(raw)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	r := NewRecorder()
	r.WindowLengthEvaluated(sampleSummary(5))

	require.NoError(t, r.Push(context.Background(), server.URL, "backtest_test"))
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/metrics/job/backtest_test", path)
	assert.NotEmpty(t, body)
}

func TestRecorder_PushFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := NewRecorder().Push(context.Background(), server.URL, "backtest_test")
	assert.ErrorIs(t, err, bterrors.ErrReport)
}
