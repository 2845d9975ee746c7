package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ducminhle1904/lumpsum-dca-backtest/cmd/common"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/backtest"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/logger"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/monitoring"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/config"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/data"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/reporting"
)

const appName = "lumpsum-dca-backtest"

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      appName,
		Usage:     "compare lump-sum investing with dollar-cost averaging over rolling windows",
		Version:   common.GetFullVersion(),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     common.RunFlags(),
		Action:    runBacktest,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "run the backtest (default)",
				Flags:  common.RunFlags(),
				Action: runBacktest,
			},
			{
				Name:   "fetch",
				Usage:  "download monthly prices into the local data layout",
				Flags:  common.FetchFlags(),
				Action: fetchPrices,
			},
			{
				Name:  "version",
				Usage: "print version information",
				Action: func(c *cli.Context) error {
					common.PrintDetailedVersion(c.App.Writer, appName)
					return nil
				},
			},
		},
	}
}

func runBacktest(c *cli.Context) error {
	if err := config.LoadEnvFile(c.String(common.FlagEnv)); err != nil {
		return err
	}

	cfg, err := config.NewManager().LoadConfig(c.String(common.FlagConfig), common.OverridesFromContext(c))
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: c.App.ErrWriter,
	})
	logger.SessionHeader(log, cfg.Symbol, cfg.Source.Kind, cfg.Amount, cfg.Years)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := data.NewPriceSource(cfg.DataSource(), cfg.Symbol, log)
	if err != nil {
		return err
	}
	series, err := data.LoadPriceSeries(ctx, src, cfg.Symbol)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"periods": series.Len(),
		"start":   series.Start().Format("2006-01"),
		"end":     series.End().Format("2006-01"),
	}).Info("📊 loaded monthly prices")

	recorder := monitoring.NewRecorder()
	bt := backtest.NewBacktester(
		backtest.WithObserver(recorder),
		backtest.WithLogger(log),
	)

	report, err := bt.Run(ctx, backtest.Config{
		Amount:   cfg.Amount,
		Years:    cfg.Years,
		Workers:  cfg.Workers,
		FailFast: cfg.FailFast,
	}, series)
	if err != nil {
		return err
	}

	manager := reporting.NewReportingManager(cfg.Reporting(), log).
		WithConsole(reporting.NewConsoleReporterTo(c.App.Writer))
	if err := manager.ReportResults(report); err != nil {
		return err
	}
	if cfg.Output.Files {
		log.WithField("dir", manager.OutputDir(report.Symbol)).Info("✅ reports saved")
	}

	pushMetrics(ctx, log, recorder, cfg.Metrics)

	if skipped := report.Skipped(); len(skipped) > 0 {
		log.WithField("count", len(skipped)).Warn("⚠️ some window lengths were skipped")
	}
	return nil
}

// pushMetrics is best effort; a failed push only logs
func pushMetrics(ctx context.Context, log logrus.FieldLogger, recorder *monitoring.Recorder, cfg config.MetricsConfig) {
	if cfg.PushgatewayURL == "" {
		return
	}
	if err := recorder.Push(ctx, cfg.PushgatewayURL, cfg.Job); err != nil {
		log.WithError(err).Warn("failed to push metrics")
		return
	}
	log.WithField("url", cfg.PushgatewayURL).Debug("metrics pushed")
}
