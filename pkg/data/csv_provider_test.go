package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/types"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "candles.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestCSVProvider_LoadData tests parsing of a well-formed candle file
func TestCSVProvider_LoadData(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
2024-01-01 00:00:00,100,102,98,101,5000
2024-01-02 00:00:00,101,103,100,102,6000
`)

	provider := NewCSVProvider()
	candles, err := provider.LoadData(path)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	assert.Equal(t, 100.0, candles[0].Open)
	assert.Equal(t, 102.0, candles[0].High)
	assert.Equal(t, 98.0, candles[0].Low)
	assert.Equal(t, 101.0, candles[0].Close)
	assert.Equal(t, 5000.0, candles[0].Volume)
	assert.True(t, candles[0].Timestamp.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

// TestCSVProvider_DateOnlyFormat tests the daily-candle timestamp format
func TestCSVProvider_DateOnlyFormat(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
2024-01-01,100,102,98,101,5000
`)

	candles, err := NewCSVProvider().LoadData(path)
	require.NoError(t, err)
	require.Len(t, candles, 1)
	assert.True(t, candles[0].Timestamp.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

// TestCSVProvider_SkipsMalformedRows tests that bad rows are dropped while
// good ones survive
func TestCSVProvider_SkipsMalformedRows(t *testing.T) {
	path := writeCSV(t, `timestamp,open,high,low,close,volume
2024-01-01 00:00:00,100,102,98,101,5000
not-a-date,100,102,98,101,5000
2024-01-03 00:00:00,abc,102,98,101,5000
2024-01-04 00:00:00,100,90,98,101,5000
2024-01-05 00:00:00,100,102,98,101,6000
`)

	candles, err := NewCSVProvider().LoadData(path)
	require.NoError(t, err)
	require.Len(t, candles, 2, "bad timestamp, bad price and impossible high all skipped")
	assert.Equal(t, 5000.0, candles[0].Volume)
	assert.Equal(t, 6000.0, candles[1].Volume)
}

// TestCSVProvider_MissingFileIsError tests that absent data never silently
// yields an empty series
func TestCSVProvider_MissingFileIsError(t *testing.T) {
	_, err := NewCSVProvider().LoadData(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

// TestCSVProvider_ValidateData tests the integrity checks on loaded candles
func TestCSVProvider_ValidateData(t *testing.T) {
	provider := NewCSVProvider()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	good := []types.OHLCV{
		{Timestamp: base, Open: 100, High: 102, Low: 98, Close: 101, Volume: 1},
		{Timestamp: base.AddDate(0, 0, 1), Open: 101, High: 103, Low: 100, Close: 102, Volume: 1},
	}
	assert.NoError(t, provider.ValidateData(good))

	assert.Error(t, provider.ValidateData(nil), "empty series")

	negative := []types.OHLCV{{Timestamp: base, Open: -1, High: 102, Low: 98, Close: 101}}
	assert.Error(t, provider.ValidateData(negative))

	inverted := []types.OHLCV{{Timestamp: base, Open: 100, High: 98, Low: 102, Close: 101}}
	assert.Error(t, provider.ValidateData(inverted))

	outOfOrder := []types.OHLCV{
		{Timestamp: base.AddDate(0, 0, 1), Open: 100, High: 102, Low: 98, Close: 101},
		{Timestamp: base, Open: 100, High: 102, Low: 98, Close: 101},
	}
	assert.Error(t, provider.ValidateData(outOfOrder))
}
