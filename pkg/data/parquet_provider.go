package data

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	bterrors "github.com/ducminhle1904/lumpsum-dca-backtest/internal/errors"
	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/types"
)

// BarRecord is the Parquet schema for monthly bar files
type BarRecord struct {
	Symbol    string  `parquet:"symbol"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	AdjClose  float64 `parquet:"adj_close"`
	Volume    float64 `parquet:"volume"`
}

// ParquetProvider reads BarRecord files. Path may be a single file or a
// directory of *.parquet files, which are read in name order.
type ParquetProvider struct {
	path string
}

// NewParquetProvider creates a Parquet provider
func NewParquetProvider(path string) *ParquetProvider {
	return &ParquetProvider{path: path}
}

// Name returns the name of the data provider
func (p *ParquetProvider) Name() string {
	return "parquet"
}

// LoadMonthly returns the bars of symbol. Records with an empty symbol are
// accepted for single-symbol files.
func (p *ParquetProvider) LoadMonthly(ctx context.Context, symbol string) ([]types.OHLCV, error) {
	const op = "LoadMonthly"

	files, err := p.files()
	if err != nil {
		return nil, bterrors.NewDataSourceError(component, op, err).WithContext("path", p.path)
	}

	var data []types.OHLCV
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := parquet.ReadFile[BarRecord](path)
		if err != nil {
			return nil, bterrors.NewDataSourceError(component, op, err).WithContext("path", path)
		}

		for _, r := range records {
			if r.Symbol != "" && symbol != "" && !strings.EqualFold(r.Symbol, symbol) {
				continue
			}
			data = append(data, r.toOHLCV())
		}
	}

	return data, nil
}

func (p *ParquetProvider) files() ([]string, error) {
	info, err := os.Stat(p.path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{p.path}, nil
	}
	// Glob results are sorted
	return filepath.Glob(filepath.Join(p.path, "*.parquet"))
}

func (r BarRecord) toOHLCV() types.OHLCV {
	return types.OHLCV{
		Timestamp: time.UnixMilli(r.Timestamp).UTC(),
		Open:      r.Open,
		High:      r.High,
		Low:       r.Low,
		Close:     r.Close,
		AdjClose:  r.AdjClose,
		Volume:    r.Volume,
	}
}

// WriteBarRecords writes bars to a Parquet file, creating parent directories.
// It is the inverse of ParquetProvider and is used to snapshot remote sources.
func WriteBarRecords(path, symbol string, bars []types.OHLCV) error {
	records := make([]BarRecord, len(bars))
	for i, b := range bars {
		records[i] = BarRecord{
			Symbol:    symbol,
			Timestamp: b.Timestamp.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			AdjClose:  b.AdjClose,
			Volume:    b.Volume,
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return bterrors.NewDataSourceError(component, "WriteBarRecords", err).WithContext("path", path)
	}
	if err := parquet.WriteFile(path, records); err != nil {
		return bterrors.NewDataSourceError(component, "WriteBarRecords", err).WithContext("path", path)
	}
	return nil
}
