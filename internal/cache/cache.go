package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a byte cache for reference-source responses
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
	Clear()
}

// Key builds a namespaced cache key from a lookup identifier
func Key(id string) string {
	hash := sha256.Sum256([]byte(id))
	return "veracity:v1:" + hex.EncodeToString(hash[:])
}

// Memory is an in-process cache with TTL eviction
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates a memory cache with the given default TTL and cleanup
// interval
func NewMemory(defaultTTL, cleanupInterval time.Duration) *Memory {
	return &Memory{cache: gocache.New(defaultTTL, cleanupInterval)}
}

func (c *Memory) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

func (c *Memory) Set(key string, value []byte, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

func (c *Memory) Delete(key string) {
	c.cache.Delete(key)
}

func (c *Memory) Clear() {
	c.cache.Flush()
}

// Nop is a cache that stores nothing, used when caching is disabled
type Nop struct{}

func (Nop) Get(string) ([]byte, bool)              { return nil, false }
func (Nop) Set(string, []byte, time.Duration)      {}
func (Nop) Delete(string)                          {}
func (Nop) Clear()                                 {}
