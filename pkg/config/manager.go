package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
)

const component = "config"

// LookupFunc reads an environment variable
type LookupFunc func(key string) (string, bool)

// Overrides carries command-line values. Nil fields leave the config untouched.
type Overrides struct {
	Amount      *float64
	Years       []int
	Symbol      *string
	SourceKind  *string
	SourcePath  *string
	DataRoot    *string
	OutputDir   *string
	ConsoleOnly *bool
	CSV         *bool
	Excel       *bool
	JSON        *bool
	Workers     *int
	FailFast    *bool
	LogLevel    *string
	LogFormat   *string
	Pushgateway *string
}

// Manager loads configuration with the precedence flags > env > file > defaults
type Manager struct {
	validator Validator
	lookup    LookupFunc
}

// NewManager creates a manager reading the process environment
func NewManager() *Manager {
	return &Manager{
		validator: NewValidator(),
		lookup:    os.LookupEnv,
	}
}

// WithLookup replaces the environment lookup
func (m *Manager) WithLookup(lookup LookupFunc) *Manager {
	m.lookup = lookup
	return m
}

// LoadConfig builds a validated config from defaults, the optional YAML file,
// the environment and the overrides, in that order
func (m *Manager) LoadConfig(configFile string, overrides Overrides) (*Config, error) {
	cfg := NewDefaultConfig()

	if configFile != "" {
		if err := m.loadFromFile(configFile, cfg); err != nil {
			return nil, err
		}
	}
	if err := m.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	overrides.Apply(cfg)

	if err := m.validator.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile merges a YAML file over cfg. Keys absent from the file keep their current value.
func (m *Manager) loadFromFile(configFile string, cfg *Config) error {
	const op = "LoadConfig"

	raw, err := os.ReadFile(configFile)
	if err != nil {
		return bterrors.NewConfigurationError(component, op, "could not read config file").
			WithContext("path", configFile).
			WithContext("error", err.Error())
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return bterrors.NewConfigurationError(component, op, "could not parse config file").
			WithContext("path", configFile).
			WithContext("error", err.Error())
	}
	return nil
}

// ApplyEnv overlays credentials and BACKTEST_* variables onto cfg
func (m *Manager) ApplyEnv(cfg *Config) error {
	const op = "ApplyEnv"

	if v, ok := m.get(EnvBybitAPIKey); ok {
		cfg.Bybit.APIKey = v
	}
	if v, ok := m.get(EnvBybitAPISecret); ok {
		cfg.Bybit.APISecret = v
	}
	if v, ok := m.get(EnvAlpacaAPIKey); ok {
		cfg.Alpaca.APIKey = v
	}
	if v, ok := m.get(EnvAlpacaAPISecret); ok {
		cfg.Alpaca.APISecret = v
	}
	if v, ok := m.get(EnvSymbol); ok {
		cfg.Symbol = v
	}
	if v, ok := m.get(EnvLogLevel); ok {
		cfg.Logging.Level = v
	}

	if v, ok := m.get(EnvAmount); ok {
		amount, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return bterrors.NewConfigurationError(component, op, "invalid amount").
				WithContext("variable", EnvAmount).
				WithContext("value", v)
		}
		cfg.Amount = amount
	}
	if v, ok := m.get(EnvYears); ok {
		years, err := ParseYears(v)
		if err != nil {
			return bterrors.NewConfigurationError(component, op, "invalid window lengths").
				WithContext("variable", EnvYears).
				WithContext("value", v)
		}
		cfg.Years = years
	}
	return nil
}

// get returns trimmed non-empty values only
func (m *Manager) get(key string) (string, bool) {
	if m.lookup == nil {
		return "", false
	}
	v, ok := m.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Apply copies every set override onto cfg
func (o Overrides) Apply(cfg *Config) {
	if o.Amount != nil {
		cfg.Amount = *o.Amount
	}
	if len(o.Years) > 0 {
		cfg.Years = append([]int(nil), o.Years...)
	}
	if o.Symbol != nil {
		cfg.Symbol = *o.Symbol
	}
	if o.SourceKind != nil {
		cfg.Source.Kind = *o.SourceKind
	}
	if o.SourcePath != nil {
		cfg.Source.Path = *o.SourcePath
	}
	if o.DataRoot != nil {
		cfg.Source.DataRoot = *o.DataRoot
	}
	if o.OutputDir != nil {
		cfg.Output.Directory = *o.OutputDir
	}
	if o.ConsoleOnly != nil && *o.ConsoleOnly {
		cfg.Output.Console = true
		cfg.Output.Files = false
	}
	if o.CSV != nil {
		cfg.Output.CSV = *o.CSV
	}
	if o.Excel != nil {
		cfg.Output.Excel = *o.Excel
	}
	if o.JSON != nil {
		cfg.Output.JSON = *o.JSON
	}
	if o.Workers != nil {
		cfg.Workers = *o.Workers
	}
	if o.FailFast != nil {
		cfg.FailFast = *o.FailFast
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
	if o.LogFormat != nil {
		cfg.Logging.Format = *o.LogFormat
	}
	if o.Pushgateway != nil {
		cfg.Metrics.PushgatewayURL = *o.Pushgateway
	}
}

// ParseYears parses a comma or space separated list such as "5,10,15"
func ParseYears(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	if len(fields) == 0 {
		return nil, errors.New("no window lengths given")
	}

	years := make([]int, 0, len(fields))
	for _, f := range fields {
		y, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		years = append(years, y)
	}
	return years, nil
}

// LoadEnvFile loads a .env file into the process environment. A missing
// default file is not an error; a missing explicit file is.
func LoadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}

	if _, err := os.Stat(path); err != nil {
		if explicit {
			return bterrors.NewConfigurationError(component, "LoadEnvFile", "env file not found").
				WithContext("path", path)
		}
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return bterrors.NewConfigurationError(component, "LoadEnvFile", "could not load env file").
			WithContext("path", path).
			WithContext("error", err.Error())
	}
	return nil
}
