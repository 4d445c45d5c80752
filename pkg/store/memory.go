package store

import (
	"context"
	"fmt"
	"sync"

	"gitlab.com/tinyland/lab/parkicle/pkg/station"
)

// MemoryStore keeps documents in process. Areas listed with Deny refuse
// reads, which makes it useful for demos of the fallback board.
type MemoryStore struct {
	mu     sync.RWMutex
	areas  map[string]map[string]station.Station
	denied map[string]bool
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		areas:  make(map[string]map[string]station.Station),
		denied: make(map[string]bool),
	}
}

// Name implements Backend.
func (m *MemoryStore) Name() string { return "memory" }

// Deny makes reads of area fail with ErrPermissionDenied.
func (m *MemoryStore) Deny(area string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.denied[area] = true
}

// FetchCollection implements Fetcher.
func (m *MemoryStore) FetchCollection(ctx context.Context, area string) ([]station.Station, error) {
	if err := ctx.Err(); err != nil {
		return nil, failed(area, err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.denied[area] {
		return nil, denied(area, fmt.Errorf("area %q is not readable", area))
	}
	docs := m.areas[area]
	out := make([]station.Station, 0, len(docs))
	for _, s := range docs {
		out = append(out, s)
	}
	station.Sort(out)
	return out, nil
}

// PutStation implements Writer.
func (m *MemoryStore) PutStation(_ context.Context, area string, s station.Station) error {
	if s.ID == "" {
		return fmt.Errorf("put station: empty id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	docs, ok := m.areas[area]
	if !ok {
		docs = make(map[string]station.Station)
		m.areas[area] = docs
	}
	docs[s.ID] = s
	return nil
}

// Close implements io.Closer.
func (m *MemoryStore) Close() error { return nil }
