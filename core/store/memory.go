package store

import (
	"context"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/gaurav-prasanna/termscan/core"
	"github.com/gaurav-prasanna/termscan/core/pipeline"
)

// MemoryStore keeps results in process memory with expiry.
type MemoryStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemoryStore creates a memory store. Expired entries are purged every
// cleanupInterval.
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Put stores an encoded copy of res, so later changes by the caller do not
// leak into the store.
func (s *MemoryStore) Put(_ context.Context, res *pipeline.Result) error {
	if res == nil || res.ID == "" {
		return errors.New("result without ID")
	}
	data, err := encode(res)
	if err != nil {
		return err
	}
	s.cache.Set(Key(res.ID), data, s.ttl)
	return nil
}

// Get returns the result stored under id.
func (s *MemoryStore) Get(_ context.Context, id string) (*pipeline.Result, error) {
	val, found := s.cache.Get(Key(id))
	if !found {
		return nil, core.ErrMissingSections
	}
	return decode(id, val.([]byte))
}

// Delete removes the result stored under id.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.cache.Delete(Key(id))
	return nil
}

// Len reports the number of stored results, including expired ones not yet
// purged.
func (s *MemoryStore) Len() int {
	return s.cache.ItemCount()
}
