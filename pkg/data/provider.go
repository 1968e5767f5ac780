package data

import (
	"fmt"

	"github.com/ducminhle1904/crypto-forecast-lab/pkg/types"
)

// Manager bundles the provider, filter and locator behind one interface. It
// is constructed per batch and passed down explicitly.
type Manager struct {
	provider Provider
	filter   *DefaultFilter
	locator  FileLocator
}

// NewManager creates a manager with a cached CSV provider
func NewManager() *Manager {
	return &Manager{
		provider: NewCachedProvider(NewCSVProvider()),
		filter:   NewDefaultFilter(),
		locator:  NewDefaultFileLocator(),
	}
}

// NewManagerWithProvider creates a manager with a custom provider
func NewManagerWithProvider(provider Provider) *Manager {
	return &Manager{
		provider: provider,
		filter:   NewDefaultFilter(),
		locator:  NewDefaultFileLocator(),
	}
}

// LoadSymbol locates, loads and validates the candles for one symbol.
func (m *Manager) LoadSymbol(dataRoot, exchange, symbol, interval string) ([]types.OHLCV, error) {
	path := m.locator.FindDataFile(dataRoot, exchange, symbol, interval)
	if path == "" {
		return nil, fmt.Errorf("no candle file for %s %s %s under %s", exchange, symbol, interval, dataRoot)
	}

	data, err := m.provider.LoadData(path)
	if err != nil {
		return nil, err
	}

	data = m.filter.RemoveDuplicates(m.filter.SortByTimestamp(data))
	if err := m.filter.ValidateTimeSequence(data); err != nil {
		return nil, err
	}
	if err := m.provider.ValidateData(data); err != nil {
		return nil, err
	}

	return data, nil
}

// LoadFile loads and validates candles from an explicit path.
func (m *Manager) LoadFile(path string) ([]types.OHLCV, error) {
	data, err := m.provider.LoadData(path)
	if err != nil {
		return nil, err
	}

	data = m.filter.RemoveDuplicates(m.filter.SortByTimestamp(data))
	if err := m.provider.ValidateData(data); err != nil {
		return nil, err
	}

	return data, nil
}
