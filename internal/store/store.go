// Package store persists decision records keyed by request_id with
// overwrite semantics: re-submitting a request id replaces its record.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/caldermed/priorauth/internal/model"
)

// ErrNotFound is returned when no record exists for a request id.
var ErrNotFound = errors.New("decision record not found")

// Store is the persistence boundary for decision records.
type Store interface {
	// Put inserts or replaces the record for record.RequestID
	Put(ctx context.Context, record *model.DecisionRecord) error

	// Get returns the record for a request id, or ErrNotFound
	Get(ctx context.Context, requestID string) (*model.DecisionRecord, error)

	// Close releases underlying resources
	Close() error
}

// Open creates a store from configuration.
func Open(cfg model.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLiteStore(cfg.Path)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s (supported: sqlite, memory)", cfg.Driver)
	}
}
