package store

import (
	"context"
	"sync"
	"sync/atomic"

	"gitlab.com/tinyland/lab/parkicle/pkg/station"
)

// MockFetcher implements Fetcher for testing. It returns configured data
// and tracks how many times FetchCollection has been called.
type MockFetcher struct {
	mu       sync.RWMutex
	stations []station.Station
	err      error
	lastArea string

	callCount atomic.Int64

	// FetchFunc, if set, overrides the default behavior.
	FetchFunc func(ctx context.Context, area string) ([]station.Station, error)
}

// MockOption configures a MockFetcher.
type MockOption func(*MockFetcher)

// WithStations sets the stations returned by FetchCollection.
func WithStations(s ...station.Station) MockOption {
	return func(m *MockFetcher) { m.stations = s }
}

// WithError sets the error returned by FetchCollection.
func WithError(err error) MockOption {
	return func(m *MockFetcher) { m.err = err }
}

// WithFetchFunc sets a custom function for FetchCollection.
func WithFetchFunc(fn func(ctx context.Context, area string) ([]station.Station, error)) MockOption {
	return func(m *MockFetcher) { m.FetchFunc = fn }
}

// NewMockFetcher creates a mock with the given options.
func NewMockFetcher(opts ...MockOption) *MockFetcher {
	m := &MockFetcher{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetStations updates the returned data (thread-safe).
func (m *MockFetcher) SetStations(s ...station.Station) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stations = s
}

// SetError updates the returned error (thread-safe).
func (m *MockFetcher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// FetchCollection implements Fetcher.
func (m *MockFetcher) FetchCollection(ctx context.Context, area string) ([]station.Station, error) {
	m.callCount.Add(1)

	m.mu.Lock()
	m.lastArea = area
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, area)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]station.Station, len(m.stations))
	copy(out, m.stations)
	return out, nil
}

// CallCount returns how many times FetchCollection has been called.
func (m *MockFetcher) CallCount() int64 {
	return m.callCount.Load()
}

// LastArea returns the area of the most recent call.
func (m *MockFetcher) LastArea() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastArea
}
