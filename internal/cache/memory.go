package cache

import (
	"github.com/ppiankov/verity/internal/artifact"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps artifacts for the life of the process. Entries never
// expire; they leave only through Delete or Clear.
type MemoryCache struct {
	cache *gocache.Cache
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates an empty cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Get retrieves an artifact from the cache
func (c *MemoryCache) Get(key string) (artifact.Artifact, bool) {
	if val, found := c.cache.Get(key); found {
		if a, ok := val.(artifact.Artifact); ok {
			return a, true
		}
	}
	return nil, false
}

// Set stores an artifact
func (c *MemoryCache) Set(key string, a artifact.Artifact) {
	c.cache.Set(key, a, gocache.NoExpiration)
}

// GetOrLoad returns the cached artifact for key, calling load on a miss.
// Failed loads are not cached.
func (c *MemoryCache) GetOrLoad(key string, load func() (artifact.Artifact, error)) (artifact.Artifact, error) {
	if a, ok := c.Get(key); ok {
		return a, nil
	}

	a, err := load()
	if err != nil {
		return nil, err
	}

	c.Set(key, a)
	return a, nil
}

// Delete removes an artifact from the cache
func (c *MemoryCache) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes all artifacts from the cache
func (c *MemoryCache) Clear() {
	c.cache.Flush()
}

// Len returns the number of cached artifacts
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}
