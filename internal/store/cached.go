package store

import (
	"context"
	"time"

	"github.com/caldermed/priorauth/internal/model"
	gocache "github.com/patrickmn/go-cache"
)

// CachedStore layers a short-lived memory cache over a durable store so
// repeated lookups of the same request id skip the database.
type CachedStore struct {
	inner Store
	cache *gocache.Cache
	ttl   time.Duration
}

// NewCachedStore wraps a store with a read-through cache.
func NewCachedStore(inner Store, ttl time.Duration) *CachedStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedStore{
		inner: inner,
		cache: gocache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

// Put writes through to the durable store and refreshes the cache.
func (c *CachedStore) Put(ctx context.Context, record *model.DecisionRecord) error {
	if err := c.inner.Put(ctx, record); err != nil {
		return err
	}
	copied := *record
	c.cache.Set(record.RequestID, &copied, c.ttl)
	return nil
}

// Get checks the cache first, then the durable store.
func (c *CachedStore) Get(ctx context.Context, requestID string) (*model.DecisionRecord, error) {
	if val, found := c.cache.Get(requestID); found {
		copied := *(val.(*model.DecisionRecord))
		return &copied, nil
	}

	record, err := c.inner.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	// Promote to cache
	copied := *record
	c.cache.Set(requestID, &copied, c.ttl)
	return record, nil
}

// Close closes the underlying store.
func (c *CachedStore) Close() error {
	return c.inner.Close()
}
