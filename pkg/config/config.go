package config

import (
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/data"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/reporting"
)

// Default values
const (
	DefaultAmount        = 10_000_000.0
	DefaultSymbol        = "^IXIC"
	DefaultSource        = data.SourceCSV
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultMetricsJob    = "lumpsum_dca_backtest"
	DefaultDataRoot      = "data"
	DefaultEnvFile       = ".env"
	DefaultBybitCategory = "spot"
	DefaultAlpacaFeed    = "iex"
)

// DefaultYears are the window lengths compared when none are configured
var DefaultYears = []int{5, 10, 15}

// Environment variables read by ApplyEnv
const (
	EnvBybitAPIKey     = "BYBIT_API_KEY"
	EnvBybitAPISecret  = "BYBIT_API_SECRET"
	EnvAlpacaAPIKey    = "ALPACA_API_KEY"
	EnvAlpacaAPISecret = "ALPACA_API_SECRET"
	EnvAmount          = "BACKTEST_AMOUNT"
	EnvYears           = "BACKTEST_YEARS"
	EnvSymbol          = "BACKTEST_SYMBOL"
	EnvLogLevel        = "LOG_LEVEL"
)

// Config is the full configuration of a backtest run
type Config struct {
	Amount   float64       `yaml:"amount"`
	Years    []int         `yaml:"years"`
	Symbol   string        `yaml:"symbol"`
	Source   SourceConfig  `yaml:"source"`
	Bybit    BybitConfig   `yaml:"bybit"`
	Alpaca   AlpacaConfig  `yaml:"alpaca"`
	Output   OutputConfig  `yaml:"output"`
	Logging  LoggingConfig `yaml:"logging"`
	Metrics  MetricsConfig `yaml:"metrics"`
	Workers  int           `yaml:"workers"`
	FailFast bool          `yaml:"fail_fast"`
}

// SourceConfig selects where monthly prices come from
type SourceConfig struct {
	Kind     string `yaml:"kind"`      // csv, parquet, bybit, alpaca
	Path     string `yaml:"path"`      // file or directory for csv and parquet
	DataRoot string `yaml:"data_root"` // searched when path is empty
}

// BybitConfig holds Bybit market-data settings. Credentials normally come from the environment.
type BybitConfig struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Category  string `yaml:"category"`
	Testnet   bool   `yaml:"testnet"`
}

// AlpacaConfig holds Alpaca market-data settings
type AlpacaConfig struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	DataURL   string `yaml:"data_url"`
	Feed      string `yaml:"feed"`
}

// OutputConfig controls the report sinks
type OutputConfig struct {
	Console   bool   `yaml:"console"`
	Files     bool   `yaml:"files"`
	Directory string `yaml:"directory"`
	CSV       bool   `yaml:"csv"`
	Excel     bool   `yaml:"xlsx"`
	JSON      bool   `yaml:"json"`
}

// LoggingConfig configures the logrus logger
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the optional Pushgateway push
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
	Job            string `yaml:"job"`
}

// NewDefaultConfig returns the configuration used when nothing is overridden
func NewDefaultConfig() *Config {
	years := make([]int, len(DefaultYears))
	copy(years, DefaultYears)

	return &Config{
		Amount: DefaultAmount,
		Years:  years,
		Symbol: DefaultSymbol,
		Source: SourceConfig{
			Kind:     DefaultSource,
			DataRoot: DefaultDataRoot,
		},
		Bybit:  BybitConfig{Category: DefaultBybitCategory},
		Alpaca: AlpacaConfig{Feed: DefaultAlpacaFeed},
		Output: OutputConfig{
			Console: true,
			Files:   true,
			CSV:     true,
			Excel:   true,
			JSON:    false,
		},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Metrics: MetricsConfig{Job: DefaultMetricsJob},
	}
}

// DataSource converts the config into the data package's source settings
func (c *Config) DataSource() data.SourceConfig {
	return data.SourceConfig{
		Kind:           c.Source.Kind,
		Path:           c.Source.Path,
		DataRoot:       c.Source.DataRoot,
		BybitAPIKey:    c.Bybit.APIKey,
		BybitAPISecret: c.Bybit.APISecret,
		BybitCategory:  c.Bybit.Category,
		BybitTestnet:   c.Bybit.Testnet,
		Alpaca: data.AlpacaConfig{
			APIKey:    c.Alpaca.APIKey,
			APISecret: c.Alpaca.APISecret,
			DataURL:   c.Alpaca.DataURL,
			Feed:      c.Alpaca.Feed,
		},
	}
}

// Reporting converts the output section into the reporting package's settings
func (c *Config) Reporting() reporting.ReportingConfig {
	return reporting.ReportingConfig{
		EnableConsole:   c.Output.Console,
		EnableFiles:     c.Output.Files,
		OutputDirectory: c.Output.Directory,
		CSVEnabled:      c.Output.CSV,
		ExcelEnabled:    c.Output.Excel,
		JSONEnabled:     c.Output.JSON,
	}
}
