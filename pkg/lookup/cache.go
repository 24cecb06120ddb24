// Package lookup provides the read-through cache shared by outbound lookups.
package lookup

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// FetchFunc loads the value for a cache miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache stores lookup responses keyed by request identity (a URL, or a
// statement plus its arguments). Entries live as long as the cache and are
// never invalidated. Concurrent misses for one key share a single fetch.
// Failed fetches are not stored.
type Cache struct {
	entries sync.Map
	group   singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats holds cache counters.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{}
}

// Fetch returns the cached value for key, calling fetch on a miss. A nil
// cache calls fetch every time.
//
// The shared fetch runs detached from the caller's cancellation, so one
// cancelled caller never fails the others waiting on the same key. Each
// caller still stops waiting when its own ctx is done.
func (c *Cache) Fetch(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	if c == nil {
		return fetch(ctx)
	}
	if v, ok := c.entries.Load(key); ok {
		c.hits.Add(1)
		return v.([]byte), nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		if v, ok := c.entries.Load(key); ok {
			return v, nil
		}
		c.misses.Add(1)
		data, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.entries.Store(key, data)
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: n,
	}
}
