// Package cache memoizes aggregate summaries by (year, predicate).
package cache

import (
	"sync"

	"github.com/golang/groupcache/lru"

	"github.com/locvowork/compensation_dashboard/internal/domain"
)

// Observer is told about every lookup outcome.
type Observer interface {
	CacheHit()
	CacheMiss()
}

// SummaryCache is a size-bounded LRU of summaries. A nil *SummaryCache is valid and
// caches nothing.
type SummaryCache struct {
	mu  sync.Mutex
	lru *lru.Cache
	obs Observer
}

// NewSummaryCache returns a cache holding up to size summaries, or nil when size <= 0.
func NewSummaryCache(size int, obs Observer) *SummaryCache {
	if size <= 0 {
		return nil
	}
	return &SummaryCache{lru: lru.New(size), obs: obs}
}

// Get returns the summary cached under key and reports a hit or miss to the observer.
func (c *SummaryCache) Get(key string) (domain.AggregateSummary, bool) {
	if c == nil {
		return domain.AggregateSummary{}, false
	}
	c.mu.Lock()
	v, ok := c.lru.Get(key)
	c.mu.Unlock()
	if !ok {
		if c.obs != nil {
			c.obs.CacheMiss()
		}
		return domain.AggregateSummary{}, false
	}
	if c.obs != nil {
		c.obs.CacheHit()
	}
	return v.(domain.AggregateSummary), true
}

// Set stores s under key, evicting the least recently used entry when full.
func (c *SummaryCache) Set(key string, s domain.AggregateSummary) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.lru.Add(key, s)
	c.mu.Unlock()
}

// Len returns the number of cached summaries.
func (c *SummaryCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// GetOrCompute returns the cached summary for key, computing and storing it on a miss.
func (c *SummaryCache) GetOrCompute(key string, compute func() domain.AggregateSummary) domain.AggregateSummary {
	if s, ok := c.Get(key); ok {
		return s
	}
	s := compute()
	c.Set(key, s)
	return s
}
