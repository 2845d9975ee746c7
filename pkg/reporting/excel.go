package reporting

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/backtest"
	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
)

const (
	summarySheet = "Summary"
	runSheet     = "Run"
)

// ExcelReporter writes a workbook with a Summary and a Run sheet
type ExcelReporter struct {
	path  string
	paths PathManager
}

// NewExcelReporter creates an Excel reporter writing to path
func NewExcelReporter(path string) *ExcelReporter {
	return &ExcelReporter{path: path, paths: NewDefaultPathManager()}
}

// Name returns the sink name
func (r *ExcelReporter) Name() string {
	return "xlsx"
}

// Path returns the output file
func (r *ExcelReporter) Path() string {
	return r.path
}

// WriteReport builds and saves the workbook
func (r *ExcelReporter) WriteReport(report *backtest.Report) error {
	if err := r.paths.EnsureDirectoryExists(r.path); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", r.path, err)
	}

	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), summarySheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(runSheet); err != nil {
		return err
	}

	styles, err := r.createExcelStyles(fx)
	if err != nil {
		return err
	}

	if err := r.writeSummarySheet(fx, report, styles); err != nil {
		return err
	}
	if err := r.writeRunSheet(fx, report, styles); err != nil {
		return err
	}

	return fx.SaveAs(r.path)
}

// createExcelStyles creates all Excel styles
func (r *ExcelReporter) createExcelStyles(fx *excelize.File) (ExcelStyles, error) {
	var styles ExcelStyles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "E0E0E0", Style: 1},
		{Type: "right", Color: "E0E0E0", Style: 1},
		{Type: "bottom", Color: "E0E0E0", Style: 1},
	}
	right := &excelize.Alignment{Horizontal: "right"}

	// Header style - dark slate background with white text
	styles.HeaderStyle, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	if styles.BaseStyle, err = fx.NewStyle(&excelize.Style{Border: border}); err != nil {
		return styles, err
	}
	if styles.IntegerStyle, err = fx.NewStyle(&excelize.Style{NumFmt: 3, Alignment: right, Border: border}); err != nil {
		return styles, err
	}
	// #,##0.00
	if styles.CurrencyStyle, err = fx.NewStyle(&excelize.Style{NumFmt: 4, Alignment: right, Border: border}); err != nil {
		return styles, err
	}
	// 0.00%
	if styles.PercentStyle, err = fx.NewStyle(&excelize.Style{NumFmt: 10, Alignment: right, Border: border}); err != nil {
		return styles, err
	}

	styles.RedPercentStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    10,
		Font:      &excelize.Font{Color: "FF0000"},
		Alignment: right,
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.GreenPercentStyle, err = fx.NewStyle(&excelize.Style{
		NumFmt:    10,
		Font:      &excelize.Font{Color: "008000", Bold: true},
		Alignment: right,
		Border:    border,
	})
	if err != nil {
		return styles, err
	}

	styles.SkippedStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Italic: true, Color: "808080"},
		Border: border,
	})
	if err != nil {
		return styles, err
	}

	styles.LabelStyle, err = fx.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
		Border: border,
	})
	if err != nil {
		return styles, err
	}

	return styles, nil
}

func (r *ExcelReporter) writeSummarySheet(fx *excelize.File, report *backtest.Report, styles ExcelStyles) error {
	sheet := summarySheet

	headers := append(append([]string{}, summaryHeaders...), "Status")
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := fx.SetCellStyle(sheet, cell, cell, styles.HeaderStyle); err != nil {
			return err
		}
	}
	fx.SetRowHeight(sheet, 1, 32)
	fx.SetColWidth(sheet, "A", "E", 12)
	fx.SetColWidth(sheet, "F", "H", 18)
	fx.SetColWidth(sheet, "I", "I", 60)

	for i, res := range report.Results {
		row := i + 2
		if err := writeSummaryRow(fx, sheet, row, res, styles); err != nil {
			return err
		}
	}

	return fx.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummaryRow(fx *excelize.File, sheet string, row int, res backtest.YearResult, styles ExcelStyles) error {
	cell := func(col int) string {
		name, _ := excelize.CoordinatesToCellName(col, row)
		return name
	}

	if !res.OK() {
		values := []interface{}{res.Years, nil, nil, nil, nil, nil, nil, nil,
			fmt.Sprintf("%s: %s", bterrors.CategoryOf(res.Err), skipReason(res))}
		if err := fx.SetSheetRow(sheet, cell(1), &values); err != nil {
			return err
		}
		return fx.SetCellStyle(sheet, cell(1), cell(len(values)), styles.SkippedStyle)
	}

	s := res.Summary
	// percent cells hold fractions so the 0.00% format renders them
	values := []interface{}{
		s.Years,
		s.Windows,
		s.LumpSumWins,
		s.DCAWins,
		s.Ties,
		s.AvgLumpSumReturn / 100,
		s.AvgDCAReturn / 100,
		s.LumpSumWinRatio / 100,
		"OK",
	}
	if err := fx.SetSheetRow(sheet, cell(1), &values); err != nil {
		return err
	}

	if err := fx.SetCellStyle(sheet, cell(1), cell(5), styles.IntegerStyle); err != nil {
		return err
	}
	if err := fx.SetCellStyle(sheet, cell(6), cell(7), styles.PercentStyle); err != nil {
		return err
	}
	ratioStyle := styles.RedPercentStyle
	if s.LumpSumWinRatio >= 50 {
		ratioStyle = styles.GreenPercentStyle
	}
	if err := fx.SetCellStyle(sheet, cell(8), cell(8), ratioStyle); err != nil {
		return err
	}
	return fx.SetCellStyle(sheet, cell(9), cell(9), styles.BaseStyle)
}

func (r *ExcelReporter) writeRunSheet(fx *excelize.File, report *backtest.Report, styles ExcelStyles) error {
	sheet := runSheet

	rows := []struct {
		label string
		value interface{}
		style int
	}{
		{"Symbol", report.Symbol, styles.BaseStyle},
		{"Source", report.Source, styles.BaseStyle},
		{"Amount", report.Amount, styles.CurrencyStyle},
		{"Periods (months)", report.Periods, styles.IntegerStyle},
		{"First Period", report.Start.Format("2006-01-02"), styles.BaseStyle},
		{"Last Period", report.End.Format("2006-01-02"), styles.BaseStyle},
		{"Window Lengths", len(report.Results), styles.IntegerStyle},
		{"Skipped", len(report.Skipped()), styles.IntegerStyle},
		{"Elapsed", report.Elapsed.String(), styles.BaseStyle},
		{"Generated", time.Now().UTC().Format(time.RFC3339), styles.BaseStyle},
	}

	fx.SetColWidth(sheet, "A", "A", 20)
	fx.SetColWidth(sheet, "B", "B", 28)

	for i, row := range rows {
		label, _ := excelize.CoordinatesToCellName(1, i+1)
		value, _ := excelize.CoordinatesToCellName(2, i+1)

		if err := fx.SetCellValue(sheet, label, row.label); err != nil {
			return err
		}
		if err := fx.SetCellStyle(sheet, label, label, styles.LabelStyle); err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, value, row.value); err != nil {
			return err
		}
		if err := fx.SetCellStyle(sheet, value, value, row.style); err != nil {
			return err
		}
	}
	return nil
}
