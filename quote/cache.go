package quote

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// cache is a typed wrapper around ristretto with a fixed TTL per entry
// kind. Invalidation is by timestamp age only, never ambient.
type cache struct {
	c   *ristretto.Cache
	ttl time.Duration
}

func newCache(ttl time.Duration) (*cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &cache{c: c, ttl: ttl}, nil
}

func (c *cache) get(key string) (any, bool) { return c.c.Get(key) }

func (c *cache) set(key string, val any) { c.c.SetWithTTL(key, val, 1, c.ttl) }
