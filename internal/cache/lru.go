// Package cache provides caching utilities for decoded response content.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// ContentCache provides thread-safe LRU caching of decoded response bodies,
// keyed by entry ID.
type ContentCache struct {
	cache *lru.Cache[string, []byte]
}

// NewContentCache creates a new LRU cache with the specified maximum number of items.
func NewContentCache(maxItems int) (*ContentCache, error) {
	c, err := lru.New[string, []byte](maxItems)
	if err != nil {
		return nil, err
	}
	return &ContentCache{cache: c}, nil
}

// Get retrieves decoded content by entry ID.
// Returns the content and true if found, nil and false otherwise.
func (c *ContentCache) Get(entryID string) ([]byte, bool) {
	return c.cache.Get(entryID)
}

// Put adds or updates the content for an entry.
func (c *ContentCache) Put(entryID string, content []byte) {
	c.cache.Add(entryID, content)
}

// Remove drops the content for an entry.
func (c *ContentCache) Remove(entryID string) {
	c.cache.Remove(entryID)
}

// Len returns the current number of items in the cache.
func (c *ContentCache) Len() int {
	return c.cache.Len()
}
