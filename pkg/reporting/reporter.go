package reporting

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/logger"
)

// Default file names inside the output directory
const (
	CSVFileName   = "summary.csv"
	ExcelFileName = "summary.xlsx"
	JSONFileName  = "summary.json"
)

// ReportingManager fans a report out to the sinks enabled in its config
type ReportingManager struct {
	config  ReportingConfig
	paths   PathManager
	console ReportSink
	log     logrus.FieldLogger
}

// NewReportingManager creates a new reporting manager with configuration
func NewReportingManager(config ReportingConfig, log logrus.FieldLogger) *ReportingManager {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportingManager{
		config:  config,
		paths:   NewDefaultPathManager(),
		console: NewConsoleReporter(),
		log:     logger.Component(log, component),
	}
}

// WithConsole replaces the console sink
func (m *ReportingManager) WithConsole(sink ReportSink) *ReportingManager {
	m.console = sink
	return m
}

// OutputDir returns where file sinks write for symbol
func (m *ReportingManager) OutputDir(symbol string) string {
	if m.config.OutputDirectory != "" {
		return m.config.OutputDirectory
	}
	return m.paths.GetDefaultOutputDir(symbol)
}

// Sinks returns the sinks enabled for a report on symbol
func (m *ReportingManager) Sinks(symbol string) []ReportSink {
	var sinks []ReportSink
	if m.config.EnableConsole && m.console != nil {
		sinks = append(sinks, m.console)
	}
	if !m.config.EnableFiles {
		return sinks
	}

	dir := m.OutputDir(symbol)
	if m.config.CSVEnabled {
		sinks = append(sinks, NewCSVReporter(filepath.Join(dir, CSVFileName)))
	}
	if m.config.ExcelEnabled {
		sinks = append(sinks, NewExcelReporter(filepath.Join(dir, ExcelFileName)))
	}
	if m.config.JSONEnabled {
		sinks = append(sinks, NewJSONReporter(filepath.Join(dir, JSONFileName)))
	}
	return sinks
}

// ReportResults writes report to every enabled sink. A failing sink does not
// stop the others; the first failure is returned as a REPORT error.
func (m *ReportingManager) ReportResults(report *backtest.Report) error {
	var firstErr error

	for _, sink := range m.Sinks(report.Symbol) {
		entry := m.log.WithField("sink", sink.Name())
		if p, ok := sink.(interface{ Path() string }); ok {
			entry = entry.WithField("path", p.Path())
		}

		if err := sink.WriteReport(report); err != nil {
			entry.WithError(err).Error("❌ failed to write report")
			if firstErr == nil {
				firstErr = bterrors.NewReportError(component, "ReportResults", err).
					WithContext("sink", sink.Name())
			}
			continue
		}
		entry.Debug("report written")
	}

	return firstErr
}
