// Package cache provides a TTL-bounded LRU used to memoize collaborator
// lookups that are stable over a run (ontology validation, druggability).
package cache

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// entry is a cached value with its expiry.
type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a thread-safe LRU cache whose entries expire after a fixed
// duration.
type TTL[K comparable, V any] struct {
	mu    sync.Mutex
	cache *lru.Cache[K, entry[V]]
	ttl   time.Duration

	hits   int64
	misses int64
}

// NewTTL creates a TTL cache holding at most size entries.
func NewTTL[K comparable, V any](size int, ttl time.Duration) (*TTL[K, V], error) {
	c, err := lru.New[K, entry[V]](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &TTL[K, V]{cache: c, ttl: ttl}, nil
}

// Get returns the cached value when present and unexpired.
func (t *TTL[K, V]) Get(key K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.cache.Get(key)
	if !ok {
		t.misses++
		var zero V
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		t.cache.Remove(key)
		t.misses++
		var zero V
		return zero, false
	}
	t.hits++
	return e.value, true
}

// Set stores a value under key for the cache's TTL.
func (t *TTL[K, V]) Set(key K, value V) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cache.Add(key, entry[V]{value: value, expiresAt: time.Now().Add(t.ttl)})
}

// Stats returns hit and miss counts.
func (t *TTL[K, V]) Stats() (hits, misses int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hits, t.misses
}
