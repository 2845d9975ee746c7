package data

import (
	"context"
	"time"

	"github.com/ducminhle1904/lumpsum-dca-backtest/pkg/types"
)

const component = "data"

// PriceSource loads monthly bars for a symbol
type PriceSource interface {
	// LoadMonthly returns the full available monthly history, in any order
	LoadMonthly(ctx context.Context, symbol string) ([]types.OHLCV, error)

	// Name returns the name of the source
	Name() string
}

// DataCache interface for caching loaded data
type DataCache interface {
	Get(key string) ([]types.OHLCV, bool)
	Set(key string, data []types.OHLCV)
	Clear()
	Size() int
}

// DataFilter cleans raw bars into a monthly series
type DataFilter interface {
	DropIncomplete(data []types.OHLCV) []types.OHLCV
	SortByTimestamp(data []types.OHLCV) []types.OHLCV
	RemoveDuplicates(data []types.OHLCV) []types.OHLCV
	ResampleMonthly(data []types.OHLCV) []types.OHLCV
	FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV
	ValidateTimeSequence(data []types.OHLCV) error
}

// CSVColumnMapping defines the column positions for different CSV formats.
// A negative AdjCloseCol means the file has no adjusted close.
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	AdjCloseCol  int
	VolumeCol    int
	MinColumns   int
	DateFormat   string
}

// Predefined CSV formats
var (
	// YahooCSVFormat is Date,Open,High,Low,Close,Adj Close,Volume
	YahooCSVFormat = CSVColumnMapping{
		TimestampCol: 0,
		OpenCol:      1,
		HighCol:      2,
		LowCol:       3,
		CloseCol:     4,
		AdjCloseCol:  5,
		VolumeCol:    6,
		MinColumns:   7,
		DateFormat:   "2006-01-02",
	}

	// KlineCSVFormat is timestamp,open,high,low,close,volume
	KlineCSVFormat = CSVColumnMapping{
		TimestampCol: 0,
		OpenCol:      1,
		HighCol:      2,
		LowCol:       3,
		CloseCol:     4,
		AdjCloseCol:  -1,
		VolumeCol:    5,
		MinColumns:   6,
		DateFormat:   "2006-01-02 15:04:05",
	}
)

// FileLocator finds price files for a symbol under a data root
type FileLocator interface {
	FindDataFile(dataRoot, kind, symbol string) string
}
