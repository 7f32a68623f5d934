package terms

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"hiring-platform/internal/matching"
)

// DefaultCacheSize bounds the number of distinct texts kept in memory.
const DefaultCacheSize = 100

// memoCache is a fixed-size LRU keyed on the literal input text. Concurrent
// misses for one key share a single computation.
type memoCache struct {
	entries *lru.Cache[string, matching.TermWeights]
	flight  singleflight.Group
}

func newMemoCache(size int) (*memoCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, matching.TermWeights](size)
	if err != nil {
		return nil, fmt.Errorf("create term cache: %w", err)
	}
	return &memoCache{entries: entries}, nil
}

// getOrCompute reports hit=true when the value came from the cache.
func (c *memoCache) getOrCompute(key string, compute func() matching.TermWeights) (matching.TermWeights, bool) {
	if weights, ok := c.entries.Get(key); ok {
		return weights, true
	}

	v, _, _ := c.flight.Do(key, func() (interface{}, error) {
		if weights, ok := c.entries.Get(key); ok {
			return weights, nil
		}
		weights := compute()
		c.entries.Add(key, weights)
		return weights, nil
	})
	return v.(matching.TermWeights), false
}

func (c *memoCache) len() int {
	return c.entries.Len()
}
