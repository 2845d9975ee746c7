package reporting

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
)

// JSONReporter writes the report as indented JSON
type JSONReporter struct {
	path  string
	paths PathManager
}

type jsonReport struct {
	Symbol    string       `json:"symbol"`
	Source    string       `json:"source"`
	Amount    float64      `json:"amount"`
	Periods   int          `json:"periods"`
	Start     time.Time    `json:"start"`
	End       time.Time    `json:"end"`
	ElapsedMS int64        `json:"elapsed_ms"`
	Results   []jsonResult `json:"results"`
}

type jsonResult struct {
	Years            int              `json:"years"`
	Status           string           `json:"status"`
	Error            string           `json:"error,omitempty"`
	WindowMonths     int              `json:"window_months,omitempty"`
	Windows          int              `json:"windows,omitempty"`
	LumpSumWins      int              `json:"lump_sum_wins"`
	DCAWins          int              `json:"dca_wins"`
	Ties             int              `json:"ties"`
	AvgLumpSumReturn float64          `json:"avg_lump_sum_return_pct"`
	AvgDCAReturn     float64          `json:"avg_dca_return_pct"`
	LumpSumWinRatio  float64          `json:"lump_sum_win_ratio_pct"`
	LumpSumStats     *jsonReturnStats `json:"lump_sum_stats,omitempty"`
	DCAStats         *jsonReturnStats `json:"dca_stats,omitempty"`
}

type jsonReturnStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// NewJSONReporter creates a JSON reporter writing to path
func NewJSONReporter(path string) *JSONReporter {
	return &JSONReporter{path: path, paths: NewDefaultPathManager()}
}

// Name returns the sink name
func (r *JSONReporter) Name() string {
	return "json"
}

// Path returns the output file
func (r *JSONReporter) Path() string {
	return r.path
}

// WriteReport writes the report file
func (r *JSONReporter) WriteReport(report *backtest.Report) error {
	data, err := FormatReport(report)
	if err != nil {
		return err
	}
	if err := r.paths.EnsureDirectoryExists(r.path); err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0644)
}

// FormatReport renders the report as indented JSON
func FormatReport(report *backtest.Report) ([]byte, error) {
	out := jsonReport{
		Symbol:    report.Symbol,
		Source:    report.Source,
		Amount:    report.Amount,
		Periods:   report.Periods,
		Start:     report.Start,
		End:       report.End,
		ElapsedMS: report.Elapsed.Milliseconds(),
		Results:   make([]jsonResult, 0, len(report.Results)),
	}

	for _, res := range report.Results {
		if !res.OK() {
			out.Results = append(out.Results, jsonResult{
				Years:  res.Years,
				Status: string(bterrors.CategoryOf(res.Err)),
				Error:  skipReason(res),
			})
			continue
		}

		s := res.Summary
		out.Results = append(out.Results, jsonResult{
			Years:            s.Years,
			Status:           "OK",
			WindowMonths:     s.WindowMonths,
			Windows:          s.Windows,
			LumpSumWins:      s.LumpSumWins,
			DCAWins:          s.DCAWins,
			Ties:             s.Ties,
			AvgLumpSumReturn: s.AvgLumpSumReturn,
			AvgDCAReturn:     s.AvgDCAReturn,
			LumpSumWinRatio:  s.LumpSumWinRatio,
			LumpSumStats:     toJSONStats(s.LumpSumStats),
			DCAStats:         toJSONStats(s.DCAStats),
		})
	}

	return json.MarshalIndent(out, "", "  ")
}

func toJSONStats(s backtest.ReturnStats) *jsonReturnStats {
	return &jsonReturnStats{
		Mean:   s.Mean,
		Median: s.Median,
		StdDev: s.StdDev,
		Min:    s.Min,
		Max:    s.Max,
	}
}
