// Airscope - Air Pollution Clustering and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/airscope

// Package cache holds computed clustering results in memory for a bounded
// time so repeated dashboard requests with the same parameters skip the
// clustering run.
package cache

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/airscope/internal/metrics"
)

// DefaultCleanupInterval is how often expired entries are swept.
const DefaultCleanupInterval = time.Minute

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Evictions   int64     `json:"evictions"`
	TotalKeys   int64     `json:"total_keys"`
	LastCleanup time.Time `json:"last_cleanup"`
}

// HitRate returns the hit percentage, 0 when nothing was looked up.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Cache is a thread-safe TTL cache. The name labels its Prometheus
// hit and miss counters.
type Cache[V any] struct {
	name    string
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]entry[V]
	stats   Stats

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache whose entries live for ttl and starts the background
// sweep. Call Stop to end it.
func New[V any](name string, ttl time.Duration) *Cache[V] {
	c := newCache[V](name, ttl, time.Now)
	go c.cleanupLoop(DefaultCleanupInterval)
	return c
}

func newCache[V any](name string, ttl time.Duration, now func() time.Time) *Cache[V] {
	return &Cache[V]{
		name:    name,
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry[V]),
		stats:   Stats{LastCleanup: now()},
		stop:    make(chan struct{}),
	}
}

// Get returns the value stored under key if it has not expired.
// Expired entries are removed on access.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.now().After(e.expiresAt) {
		c.mu.Lock()
		if cur, still := c.entries[key]; still && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
			c.stats.Evictions++
			c.stats.TotalKeys = int64(len(c.entries))
		}
		c.mu.Unlock()
		ok = false
	}

	c.mu.Lock()
	if ok {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.mu.Unlock()

	if ok {
		metrics.CacheHits.WithLabelValues(c.name).Inc()
		return e.value, true
	}
	metrics.CacheMisses.WithLabelValues(c.name).Inc()
	var zero V
	return zero, false
}

// Set stores value under key for the cache TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}
	c.stats.TotalKeys = int64(len(c.entries))
}

// TTL returns the lifetime of new entries.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// GetStats returns a copy of the current statistics.
func (c *Cache[V]) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Stop ends the background sweep. It is safe to call more than once.
func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache[V]) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.cleanup()
		case <-c.stop:
			return
		}
	}
}

// cleanup removes all expired entries.
func (c *Cache[V]) cleanup() {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			c.stats.Evictions++
		}
	}
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.LastCleanup = now
}

// GenerateKey creates a cache key from a method name and its parameters.
func GenerateKey(method string, params any) string {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%s:%v", method, params)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", method, hash[:16])
}
