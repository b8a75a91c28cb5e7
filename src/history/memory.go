package history

import (
	"context"
	"sort"
	"sync"

	"gh-triage-mcp/src/contracts"
)

// DefaultMemoryCapacity bounds a MemoryStore created by NewMemoryStore.
const DefaultMemoryCapacity = 10 * DefaultLimit

// MemoryStore is an in-memory implementation of Store.
// Useful for testing and for running without a database. It keeps at most
// capacity records, evicting the oldest by StartedAt.
type MemoryStore struct {
	mu       sync.RWMutex
	records  map[string]contracts.AnalysisRecord
	capacity int
}

// NewMemoryStore creates a new in-memory store holding DefaultMemoryCapacity records.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithCapacity(DefaultMemoryCapacity)
}

// NewMemoryStoreWithCapacity creates an in-memory store holding at most
// capacity records. A non-positive capacity uses DefaultMemoryCapacity.
func NewMemoryStoreWithCapacity(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	return &MemoryStore{
		records:  make(map[string]contracts.AnalysisRecord),
		capacity: capacity,
	}
}

// Save stores a copy of record, evicting the oldest records once the store
// is over capacity.
func (s *MemoryStore) Save(ctx context.Context, record contracts.AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[record.ID] = record
	for len(s.records) > s.capacity {
		delete(s.records, s.oldestID())
	}
	return nil
}

// oldestID returns the record that sorts last in Recent order.
func (s *MemoryStore) oldestID() string {
	var oldest *contracts.AnalysisRecord
	for id := range s.records {
		r := s.records[id]
		if oldest == nil || newer(*oldest, r) {
			oldest = &r
		}
	}
	return oldest.ID
}

// newer reports whether a sorts before b in Recent order.
func newer(a, b contracts.AnalysisRecord) bool {
	if a.StartedAt.Equal(b.StartedAt) {
		return a.ID < b.ID
	}
	return a.StartedAt.After(b.StartedAt)
}

// Recent returns the newest records by StartedAt.
func (s *MemoryStore) Recent(ctx context.Context, owner, repo string, limit int) ([]contracts.AnalysisRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]contracts.AnalysisRecord, 0, len(s.records))
	for _, r := range s.records {
		if owner != "" && repo != "" && (r.Owner != owner || r.Repo != repo) {
			continue
		}
		result = append(result, r)
	}

	sort.Slice(result, func(i, j int) bool {
		return newer(result[i], result[j])
	})

	if limit = normalizeLimit(limit); len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Close closes the store (no-op for memory store).
func (s *MemoryStore) Close() error {
	return nil
}
