package utils

import (
	"log"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// cacheItem wraps cached data with its expiry deadline.
type cacheItem struct {
	data      interface{}
	expiresAt time.Time
}

// PageCache is a small TTL'd LRU used for rendered page data.
type PageCache struct {
	lruCache *lru.Cache[string, cacheItem]
}

var (
	cacheInstance *PageCache
	cacheOnce     sync.Once
)

// GetCache returns the shared cache instance.
func GetCache() *PageCache {
	cacheOnce.Do(func() {
		l, err := lru.New[string, cacheItem](128)
		if err != nil {
			log.Fatalf("Failed to create LRU cache: %v", err)
		}
		cacheInstance = &PageCache{lruCache: l}
	})
	return cacheInstance
}

// Set stores data under key for the given TTL.
func (c *PageCache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, cacheItem{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

// Get returns cached data, or nil when missing or expired.
func (c *PageCache) Get(key string) interface{} {
	item, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if time.Now().After(item.expiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return item.data
}

// Delete removes a single key.
func (c *PageCache) Delete(key string) {
	c.lruCache.Remove(key)
}

// Purge drops every cached entry.
func (c *PageCache) Purge() {
	c.lruCache.Purge()
}
