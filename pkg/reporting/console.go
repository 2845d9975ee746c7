package reporting

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
)

// ConsoleReporter prints the report as tables
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a console reporter writing to stdout
func NewConsoleReporter() *ConsoleReporter {
	return NewConsoleReporterTo(os.Stdout)
}

// NewConsoleReporterTo creates a console reporter writing to out
func NewConsoleReporterTo(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// Name returns the sink name
func (r *ConsoleReporter) Name() string {
	return "console"
}

// WriteReport prints the run header and one row per window length
func (r *ConsoleReporter) WriteReport(report *backtest.Report) error {
	r.printRunInfo(report)
	r.printSummary(report)
	return nil
}

func (r *ConsoleReporter) printRunInfo(report *backtest.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("LUMP SUM vs DCA BACKTEST")
	t.SetStyle(table.StyleRounded)

	t.AppendRows([]table.Row{
		{"📊 Symbol", report.Symbol},
		{"🏪 Source", report.Source},
		{"💰 Amount", formatMoney(report.Amount)},
		{"📅 History", fmt.Sprintf("%s → %s (%d months)",
			report.Start.Format("2006-01"), report.End.Format("2006-01"), report.Periods)},
		{"⏱️ Elapsed", report.Elapsed.String()},
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, WidthMin: 12, WidthMax: 12, Align: text.AlignLeft},
		{Number: 2, WidthMin: 30, WidthMax: 45, Align: text.AlignLeft},
	})

	t.Render()
	fmt.Fprintln(r.out)
}

func (r *ConsoleReporter) printSummary(report *backtest.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetTitle("RESULTS BY WINDOW LENGTH")
	t.SetStyle(table.StyleRounded)

	header := make(table.Row, len(summaryHeaders))
	for i, h := range summaryHeaders {
		header[i] = h
	}
	t.AppendHeader(header)

	var skipped []backtest.YearResult
	for _, res := range report.Results {
		if !res.OK() {
			skipped = append(skipped, res)
			t.AppendRow(table.Row{res.Years, "-", "-", "-", "-", "-", "-", "⚠️ " + string(bterrors.CategoryOf(res.Err))})
			continue
		}
		s := res.Summary
		t.AppendRow(table.Row{
			s.Years,
			s.Windows,
			s.LumpSumWins,
			s.DCAWins,
			s.Ties,
			formatPercent(s.AvgLumpSumReturn),
			formatPercent(s.AvgDCAReturn),
			formatPercent(s.LumpSumWinRatio),
		})
	}

	cols := make([]table.ColumnConfig, len(summaryHeaders))
	for i := range cols {
		cols[i] = table.ColumnConfig{Number: i + 1, Align: text.AlignRight}
	}
	t.SetColumnConfigs(cols)

	t.Render()

	for _, res := range skipped {
		fmt.Fprintf(r.out, "⚠️  %d-year windows skipped: %v\n", res.Years, res.Err)
	}
	fmt.Fprintln(r.out)
}
