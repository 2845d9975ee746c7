package main

import (
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/ducminhle1904/lumpsum-dca-backtest/cmd/common"
	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/logger"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/config"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/data"
)

// fetchPrices downloads the cleaned monthly history of a symbol and stores it
// where the file sources look for it
func fetchPrices(c *cli.Context) error {
	if err := config.LoadEnvFile(c.String(common.FlagEnv)); err != nil {
		return err
	}

	cfg, err := config.NewManager().LoadConfig(c.String(common.FlagConfig), common.OverridesFromContext(c))
	if err != nil {
		return err
	}

	format := strings.ToLower(c.String(common.FlagFormat))
	if format != data.SourceParquet && format != data.SourceCSV {
		return bterrors.NewConfigurationError("cli", "fetch", "unsupported output format").
			WithContext("format", format)
	}

	log := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: c.App.ErrWriter,
	})

	src, err := data.NewPriceSource(cfg.DataSource(), cfg.Symbol, log)
	if err != nil {
		return err
	}
	bars, err := data.LoadMonthlyBars(c.Context, src, cfg.Symbol)
	if err != nil {
		return err
	}

	out := c.String(common.FlagOut)
	if out == "" {
		out = filepath.Join(cfg.Source.DataRoot, data.SymbolDirName(cfg.Symbol), "monthly."+format)
	}

	if format == data.SourceParquet {
		err = data.WriteBarRecords(out, cfg.Symbol, bars)
	} else {
		err = data.WriteCSVBars(out, bars)
	}
	if err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"symbol": cfg.Symbol,
		"source": src.Name(),
		"bars":   len(bars),
		"path":   out,
	}).Info("💾 monthly prices saved")
	return nil
}
