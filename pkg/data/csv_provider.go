package data

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
	"github.com/ducminhle1904/lumpsum-dca-backtest/internal/logger"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/types"
)

// fallback layouts tried after the mapping's DateFormat
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// CSVProvider loads bars from a CSV file. With no explicit format, columns are
// resolved from the header row.
type CSVProvider struct {
	path   string
	format *CSVColumnMapping
	log    logrus.FieldLogger
}

// NewCSVProvider creates a CSV provider that detects columns from the header
func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{
		path: path,
		log:  logger.Component(logger.Nop(), component),
	}
}

// NewCSVProviderWithFormat creates a CSV provider with a fixed column mapping
func NewCSVProviderWithFormat(path string, format CSVColumnMapping) *CSVProvider {
	p := NewCSVProvider(path)
	p.format = &format
	return p
}

// WithLogger sets the logger used for skipped-row diagnostics
func (p *CSVProvider) WithLogger(l logrus.FieldLogger) *CSVProvider {
	p.log = logger.Component(l, component)
	return p
}

// Name returns the name of the data provider
func (p *CSVProvider) Name() string {
	return "csv"
}

// LoadMonthly reads every complete row of the file. The symbol is not
// checked against the file contents.
func (p *CSVProvider) LoadMonthly(ctx context.Context, symbol string) ([]types.OHLCV, error) {
	const op = "LoadMonthly"

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(p.path)
	if err != nil {
		return nil, bterrors.NewDataSourceError(component, op, err).
			WithContext("path", p.path).
			WithContext("symbol", symbol)
	}
	defer file.Close()

	data, err := p.read(file)
	if err != nil {
		return nil, bterrors.NewDataSourceError(component, op, err).
			WithContext("path", p.path).
			WithContext("symbol", symbol)
	}
	return data, nil
}

func (p *CSVProvider) read(r io.Reader) ([]types.OHLCV, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	format := YahooCSVFormat
	if p.format != nil {
		format = *p.format
	} else if detected, ok := DetectCSVFormat(header); ok {
		format = detected
	}

	var data []types.OHLCV
	lineNum := 1
	skipped := 0

	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("error reading CSV at line %d: %w", lineNum, err)
		}
		lineNum++

		candle, reason := parseRecord(record, format)
		if reason != "" {
			skipped++
			p.log.WithFields(logrus.Fields{"line": lineNum, "reason": reason}).Debug("skipping row")
			continue
		}
		data = append(data, candle)
	}

	if skipped > 0 {
		p.log.WithFields(logrus.Fields{"path": p.path, "skipped": skipped, "kept": len(data)}).
			Info("⚠️ dropped incomplete rows")
	}

	return data, nil
}

// parseRecord returns the parsed bar, or a non-empty reason the row was dropped
func parseRecord(record []string, format CSVColumnMapping) (types.OHLCV, string) {
	if len(record) < format.MinColumns {
		return types.OHLCV{}, "insufficient columns"
	}

	timestamp, ok := parseDate(record[format.TimestampCol], format.DateFormat)
	if !ok {
		return types.OHLCV{}, "invalid timestamp"
	}

	fields := map[string]int{
		"open":  format.OpenCol,
		"high":  format.HighCol,
		"low":   format.LowCol,
		"close": format.CloseCol,
	}
	values := make(map[string]float64, len(fields))
	for name, col := range fields {
		v, ok := parseValue(record, col)
		if !ok {
			return types.OHLCV{}, "missing " + name
		}
		values[name] = v
	}

	candle := types.OHLCV{
		Timestamp: timestamp,
		Open:      values["open"],
		High:      values["high"],
		Low:       values["low"],
		Close:     values["close"],
	}

	if format.AdjCloseCol >= 0 {
		adj, ok := parseValue(record, format.AdjCloseCol)
		if !ok {
			return types.OHLCV{}, "missing adj close"
		}
		candle.AdjClose = adj
	}
	if format.VolumeCol >= 0 {
		v, ok := parseValue(record, format.VolumeCol)
		if !ok {
			return types.OHLCV{}, "missing volume"
		}
		candle.Volume = v
	}

	if candle.Close <= 0 || candle.Price() <= 0 {
		return types.OHLCV{}, "non-positive price"
	}

	return candle, ""
}

// DetectCSVFormat builds a mapping from header names such as
// Date,Open,High,Low,Close,Adj Close,Volume. Matching is case-insensitive.
func DetectCSVFormat(header []string) (CSVColumnMapping, bool) {
	format := CSVColumnMapping{
		TimestampCol: -1, OpenCol: -1, HighCol: -1, LowCol: -1,
		CloseCol: -1, AdjCloseCol: -1, VolumeCol: -1,
	}

	for i, name := range header {
		switch normalizeHeader(name) {
		case "date", "datetime", "timestamp", "time":
			format.TimestampCol = i
		case "open":
			format.OpenCol = i
		case "high":
			format.HighCol = i
		case "low":
			format.LowCol = i
		case "close":
			format.CloseCol = i
		case "adjclose", "adjustedclose":
			format.AdjCloseCol = i
		case "volume":
			format.VolumeCol = i
		}
	}

	required := []int{format.TimestampCol, format.OpenCol, format.HighCol, format.LowCol, format.CloseCol}
	for _, col := range required {
		if col < 0 {
			return CSVColumnMapping{}, false
		}
		if col+1 > format.MinColumns {
			format.MinColumns = col + 1
		}
	}
	if format.AdjCloseCol+1 > format.MinColumns {
		format.MinColumns = format.AdjCloseCol + 1
	}
	return format, true
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(name)
}

func parseDate(raw, layout string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if layout != "" {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t, true
		}
	}
	// unix milliseconds, as exported from kline endpoints
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil && ms > 0 {
		return time.UnixMilli(ms).UTC(), true
	}
	return time.Time{}, false
}

func parseValue(record []string, col int) (float64, bool) {
	raw := valueAt(record, col)
	if isNull(raw) {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func valueAt(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}

func isNull(raw string) bool {
	switch strings.ToLower(raw) {
	case "", "null", "nan", "na", "n/a", "none":
		return true
	}
	return false
}

// WriteCSVBars writes bars in the Yahoo layout read back by NewCSVProvider
func WriteCSVBars(path string, bars []types.OHLCV) error {
	const op = "WriteCSVBars"

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return bterrors.NewDataSourceError(component, op, err).WithContext("path", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return bterrors.NewDataSourceError(component, op, err).WithContext("path", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Open", "High", "Low", "Close", "Adj Close", "Volume"}); err != nil {
		return bterrors.NewDataSourceError(component, op, err).WithContext("path", path)
	}
	for _, b := range bars {
		record := []string{
			b.Timestamp.UTC().Format(YahooCSVFormat.DateFormat),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			formatFloat(b.Price()),
			formatFloat(b.Volume),
		}
		if err := w.Write(record); err != nil {
			return bterrors.NewDataSourceError(component, op, err).WithContext("path", path)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return bterrors.NewDataSourceError(component, op, err).WithContext("path", path)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
