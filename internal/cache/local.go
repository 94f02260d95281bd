package cache

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type localItem[V any] struct {
	value     V
	expiresAt time.Time
}

// Local is an in-process LRU cache whose entries also expire after a TTL
type Local[K comparable, V any] struct {
	lru *lru.Cache[K, localItem[V]]
	ttl time.Duration
	now func() time.Time
}

// NewLocal creates a Local cache holding at most size entries
func NewLocal[K comparable, V any](size int, ttl time.Duration) (*Local[K, V], error) {
	l, err := lru.New[K, localItem[V]](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %v", err)
	}
	return &Local[K, V]{lru: l, ttl: ttl, now: time.Now}, nil
}

// Set adds or replaces key
func (c *Local[K, V]) Set(key K, value V) {
	c.lru.Add(key, localItem[V]{value: value, expiresAt: c.now().Add(c.ttl)})
}

// Get returns the cached value if present and not expired
func (c *Local[K, V]) Get(key K) (V, bool) {
	item, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(item.expiresAt) {
		c.lru.Remove(key)
		var zero V
		return zero, false
	}
	return item.value, true
}

// Delete removes key
func (c *Local[K, V]) Delete(key K) {
	c.lru.Remove(key)
}

// Len reports the number of entries, expired ones included
func (c *Local[K, V]) Len() int {
	return c.lru.Len()
}
