package server

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// responseCache keeps computed API responses for a short TTL, so a
// dashboard polling every few seconds does not recompute valuations or
// hit the quote provider on every request.
type responseCache struct {
	c   *ristretto.Cache
	ttl time.Duration
}

func newResponseCache(ttl time.Duration) (*responseCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &responseCache{c: c, ttl: ttl}, nil
}

func (c *responseCache) Get(key string) (any, bool) { return c.c.Get(key) }

func (c *responseCache) Set(key string, val any) { c.c.SetWithTTL(key, val, 1, c.ttl) }

// Invalidate drops every derived view. Called after a ledger mutation.
func (c *responseCache) Invalidate() { c.c.Clear() }
