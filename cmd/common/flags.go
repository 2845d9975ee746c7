package common

import (
	"github.com/urfave/cli/v2"

	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/config"
)

// Flag names
const (
	FlagConfig      = "config"
	FlagEnv         = "env"
	FlagAmount      = "amount"
	FlagYears       = "years"
	FlagSymbol      = "symbol"
	FlagSource      = "source"
	FlagData        = "data"
	FlagDataRoot    = "data-root"
	FlagOutputDir   = "output-dir"
	FlagConsoleOnly = "console-only"
	FlagCSV         = "csv"
	FlagExcel       = "xlsx"
	FlagJSON        = "json"
	FlagWorkers     = "workers"
	FlagFailFast    = "fail-fast"
	FlagLogLevel    = "log-level"
	FlagLogFormat   = "log-format"
	FlagPushgateway = "pushgateway"
	FlagOut         = "out"
	FlagFormat      = "format"
)

// RunFlags returns the flags of the run command. Flags carry no defaults;
// unset flags leave the loaded config alone.
func RunFlags() []cli.Flag {
	return []cli.Flag{
		// Environment and configuration
		&cli.StringFlag{Name: FlagConfig, Aliases: []string{"c"}, Usage: "YAML config file"},
		&cli.StringFlag{Name: FlagEnv, Usage: "environment file (default .env when present)"},

		// Backtest
		&cli.Float64Flag{Name: FlagAmount, Usage: "amount invested per window"},
		&cli.IntSliceFlag{Name: FlagYears, Aliases: []string{"y"}, Usage: "window length in years, repeatable"},
		&cli.StringFlag{Name: FlagSymbol, Aliases: []string{"s"}, Usage: "symbol to backtest"},
		&cli.StringFlag{Name: FlagSource, Usage: "price source: csv, parquet, bybit or alpaca"},
		&cli.StringFlag{Name: FlagData, Aliases: []string{"d"}, Usage: "data file or directory for file sources"},
		&cli.StringFlag{Name: FlagDataRoot, Usage: "root directory searched when --data is empty"},
		&cli.IntFlag{Name: FlagWorkers, Usage: "evaluate window lengths in parallel"},
		&cli.BoolFlag{Name: FlagFailFast, Usage: "abort on the first skipped window length"},

		// Output
		&cli.StringFlag{Name: FlagOutputDir, Aliases: []string{"o"}, Usage: "output directory (default results/<SYMBOL>)"},
		&cli.BoolFlag{Name: FlagConsoleOnly, Usage: "console output only (no file output)"},
		&cli.BoolFlag{Name: FlagCSV, Usage: "write summary.csv"},
		&cli.BoolFlag{Name: FlagExcel, Usage: "write summary.xlsx"},
		&cli.BoolFlag{Name: FlagJSON, Usage: "write summary.json"},

		// Logging and metrics
		&cli.StringFlag{Name: FlagLogLevel, Usage: "debug, info, warn or error"},
		&cli.StringFlag{Name: FlagLogFormat, Usage: "text or json"},
		&cli.StringFlag{Name: FlagPushgateway, Usage: "Pushgateway URL for run metrics"},
	}
}

// FetchFlags returns the flags of the fetch command
func FetchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: FlagConfig, Aliases: []string{"c"}, Usage: "YAML config file"},
		&cli.StringFlag{Name: FlagEnv, Usage: "environment file (default .env when present)"},
		&cli.StringFlag{Name: FlagSymbol, Aliases: []string{"s"}, Usage: "symbol to download"},
		&cli.StringFlag{Name: FlagSource, Usage: "price source: csv, parquet, bybit or alpaca"},
		&cli.StringFlag{Name: FlagData, Aliases: []string{"d"}, Usage: "input file for file sources"},
		&cli.StringFlag{Name: FlagDataRoot, Usage: "root directory for input and default output"},
		&cli.StringFlag{Name: FlagOut, Aliases: []string{"o"}, Usage: "output file (default <data-root>/<SYMBOL>/monthly.<format>)"},
		&cli.StringFlag{Name: FlagFormat, Value: "parquet", Usage: "output format: parquet or csv"},
		&cli.StringFlag{Name: FlagLogLevel, Usage: "debug, info, warn or error"},
		&cli.StringFlag{Name: FlagLogFormat, Usage: "text or json"},
	}
}

// OverridesFromContext collects the flags the user actually set
func OverridesFromContext(c *cli.Context) config.Overrides {
	var o config.Overrides

	if c.IsSet(FlagAmount) {
		v := c.Float64(FlagAmount)
		o.Amount = &v
	}
	if c.IsSet(FlagYears) {
		o.Years = c.IntSlice(FlagYears)
	}
	o.Symbol = stringFlag(c, FlagSymbol)
	o.SourceKind = stringFlag(c, FlagSource)
	o.SourcePath = stringFlag(c, FlagData)
	o.DataRoot = stringFlag(c, FlagDataRoot)
	o.OutputDir = stringFlag(c, FlagOutputDir)
	o.ConsoleOnly = boolFlag(c, FlagConsoleOnly)
	o.CSV = boolFlag(c, FlagCSV)
	o.Excel = boolFlag(c, FlagExcel)
	o.JSON = boolFlag(c, FlagJSON)
	o.FailFast = boolFlag(c, FlagFailFast)
	o.LogLevel = stringFlag(c, FlagLogLevel)
	o.LogFormat = stringFlag(c, FlagLogFormat)
	o.Pushgateway = stringFlag(c, FlagPushgateway)
	if c.IsSet(FlagWorkers) {
		v := c.Int(FlagWorkers)
		o.Workers = &v
	}
	return o
}

func stringFlag(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	v := c.String(name)
	return &v
}

func boolFlag(c *cli.Context, name string) *bool {
	if !c.IsSet(name) {
		return nil
	}
	v := c.Bool(name)
	return &v
}
