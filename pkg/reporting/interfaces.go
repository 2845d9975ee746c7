package reporting

import (
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/backtest"
)

const component = "reporting"

// ReportSink renders a finished report somewhere
type ReportSink interface {
	Name() string
	WriteReport(report *backtest.Report) error
}

// PathManager defines interface for output path management
type PathManager interface {
	GetDefaultOutputDir(symbol string) string
	EnsureDirectoryExists(path string) error
}

// ExcelStyles holds Excel formatting styles
type ExcelStyles struct {
	HeaderStyle       int
	BaseStyle         int
	IntegerStyle      int
	CurrencyStyle     int
	PercentStyle      int
	RedPercentStyle   int
	GreenPercentStyle int
	SkippedStyle      int
	LabelStyle        int
}

// ReportingConfig holds configuration for reporting
type ReportingConfig struct {
	EnableConsole   bool
	EnableFiles     bool
	OutputDirectory string // defaults to results/<SYMBOL>
	CSVEnabled      bool
	ExcelEnabled    bool
	JSONEnabled     bool
}

// Column headings shared by every tabular sink
var summaryHeaders = []string{
	"Year",
	"Windows",
	"Lump Sum Wins",
	"Dollar-Cost Averaging Wins",
	"Ties",
	"Average Annualized Lump Sum Return",
	"Average Annualized DCA Return",
	"Lump Sum Win Ratio",
}
