package data

import (
	"time"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/types"
)

// Provider interface for loading historical candles from various sources
type Provider interface {
	// LoadData loads historical candles from the specified source
	LoadData(source string) ([]types.OHLCV, error)

	// ValidateData validates the integrity of the loaded candles
	ValidateData(data []types.OHLCV) error

	// GetName returns the name of the provider
	GetName() string
}

// Cache interface for caching loaded candles
type Cache interface {
	// Get retrieves candles from cache if available
	Get(key string) ([]types.OHLCV, bool)

	// Set stores candles in cache
	Set(key string, data []types.OHLCV)

	// Clear removes all cached entries
	Clear()

	// Size returns the number of cached entries
	Size() int
}

// Filter interface for filtering and ordering candles
type Filter interface {
	// FilterByDateRange filters candles to a specific date range
	FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV

	// ValidateTimeSequence ensures candles are in chronological order
	ValidateTimeSequence(data []types.OHLCV) error
}

// CSVColumnMapping defines the column positions for different CSV formats
type CSVColumnMapping struct {
	TimestampCol int
	OpenCol      int
	HighCol      int
	LowCol       int
	CloseCol     int
	VolumeCol    int
	MinColumns   int
	DateFormats  []string
}

// Predefined CSV formats
var (
	DefaultCSVFormat = CSVColumnMapping{
		TimestampCol: 0,
		OpenCol:      1,
		HighCol:      2,
		LowCol:       3,
		CloseCol:     4,
		VolumeCol:    5,
		MinColumns:   6,
		DateFormats:  []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339},
	}
)

// FileLocator interface for finding candle files
type FileLocator interface {
	// FindDataFile attempts to locate the candle file for an exchange and symbol
	FindDataFile(dataRoot, exchange, symbol, interval string) string
}
