package reporting

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
)

// CSVReporter writes one row per window length
type CSVReporter struct {
	path  string
	paths PathManager
}

// NewCSVReporter creates a CSV reporter writing to path
func NewCSVReporter(path string) *CSVReporter {
	return &CSVReporter{path: path, paths: NewDefaultPathManager()}
}

// Name returns the sink name
func (r *CSVReporter) Name() string {
	return "csv"
}

// Path returns the output file
func (r *CSVReporter) Path() string {
	return r.path
}

// WriteReport writes the summary table. Percentages are in percent units with
// two decimals; skipped window lengths carry their error category and reason.
func (r *CSVReporter) WriteReport(report *backtest.Report) error {
	if err := r.paths.EnsureDirectoryExists(r.path); err != nil {
		return err
	}

	f, err := os.Create(r.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append(append([]string{}, summaryHeaders...), "Status", "Reason")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, res := range report.Results {
		if err := w.Write(csvRow(res)); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

func csvRow(res backtest.YearResult) []string {
	if !res.OK() {
		row := []string{strconv.Itoa(res.Years), "", "", "", "", "", "", ""}
		return append(row, string(bterrors.CategoryOf(res.Err)), skipReason(res))
	}

	s := res.Summary
	return []string{
		strconv.Itoa(s.Years),
		strconv.Itoa(s.Windows),
		strconv.Itoa(s.LumpSumWins),
		strconv.Itoa(s.DCAWins),
		strconv.Itoa(s.Ties),
		fixed2(s.AvgLumpSumReturn),
		fixed2(s.AvgDCAReturn),
		fixed2(s.LumpSumWinRatio),
		"OK",
		"",
	}
}

func skipReason(res backtest.YearResult) string {
	if res.Err == nil {
		return "no summary"
	}
	return res.Err.Error()
}
