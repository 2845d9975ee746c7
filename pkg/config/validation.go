package config

import (
	"strings"

	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/data"
)

// Validator checks a loaded configuration
type Validator interface {
	Validate(cfg *Config) error
}

// ConfigValidator returns CONFIG errors for unusable settings
type ConfigValidator struct{}

// NewValidator creates the default validator
func NewValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate performs validation on every section
func (v *ConfigValidator) Validate(cfg *Config) error {
	const op = "Validate"

	if cfg == nil {
		return bterrors.NewConfigurationError(component, op, "config is nil")
	}
	if !(cfg.Amount > 0) {
		return bterrors.NewConfigurationError(component, op, "amount must be positive").
			WithContext("amount", cfg.Amount)
	}
	if len(cfg.Years) == 0 {
		return bterrors.NewConfigurationError(component, op, "at least one window length is required")
	}
	for i, y := range cfg.Years {
		if y <= 0 {
			return bterrors.NewConfigurationError(component, op, "window length must be positive").
				WithContext("index", i).
				WithContext("years", y)
		}
	}
	if strings.TrimSpace(cfg.Symbol) == "" {
		return bterrors.NewConfigurationError(component, op, "symbol is required")
	}
	if cfg.Workers < 0 {
		return bterrors.NewConfigurationError(component, op, "workers must not be negative").
			WithContext("workers", cfg.Workers)
	}

	return v.validateSource(cfg)
}

func (v *ConfigValidator) validateSource(cfg *Config) error {
	const op = "Validate"

	kind := strings.ToLower(strings.TrimSpace(cfg.Source.Kind))
	if !data.IsKnownSource(kind) {
		return bterrors.NewConfigurationError(component, op, "unknown price source").
			WithContext("kind", cfg.Source.Kind).
			WithContext("supported", strings.Join(data.SourceKinds, "|"))
	}

	switch kind {
	case data.SourceCSV, data.SourceParquet:
		if cfg.Source.Path == "" && cfg.Source.DataRoot == "" {
			return bterrors.NewConfigurationError(component, op, "file sources need a path or data root").
				WithContext("kind", kind)
		}
	case data.SourceAlpaca:
		if cfg.Alpaca.APIKey == "" || cfg.Alpaca.APISecret == "" {
			return bterrors.NewConfigurationError(component, op, "alpaca source requires API credentials").
				WithContext("env", EnvAlpacaAPIKey+","+EnvAlpacaAPISecret)
		}
	}
	return nil
}
