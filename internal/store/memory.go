package store

import (
	"context"

	"github.com/caldermed/priorauth/internal/model"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps decision records in memory. Used for tests and for
// running without durable storage.
type MemoryStore struct {
	records *gocache.Cache
}

// NewMemoryStore creates a new in-memory store. Records never expire.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: gocache.New(gocache.NoExpiration, 0),
	}
}

// Put inserts or replaces the record for its request id.
func (s *MemoryStore) Put(_ context.Context, record *model.DecisionRecord) error {
	copied := *record
	s.records.Set(record.RequestID, &copied, gocache.NoExpiration)
	return nil
}

// Get returns the record for a request id.
func (s *MemoryStore) Get(_ context.Context, requestID string) (*model.DecisionRecord, error) {
	if val, found := s.records.Get(requestID); found {
		copied := *(val.(*model.DecisionRecord))
		return &copied, nil
	}
	return nil, ErrNotFound
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
