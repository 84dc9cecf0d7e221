// Package cache stores rendered feed pages for a short time.
//
// Keys are built by the caller (see FeedKey); the cache namespaces them,
// serialises values as JSON and drops them after the configured TTL or
// when a key prefix is invalidated.
package cache

import (
	"context"
	"fmt"
	"sync/atomic"
)

// FeedCache is the page cache consumed by the feed service.
type FeedCache interface {
	// Get decodes the value stored under key into dst and reports whether
	// it was found.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	// Invalidate drops every key starting with prefix.
	Invalidate(ctx context.Context, prefix string) error
}

// FeedKey is the cache key of one page of a feed.
func FeedKey(feed string, page, size int) string {
	return fmt.Sprintf("feed:%s:%d:%d", feed, page, size)
}

// FeedPrefix matches every cached page of a feed.
func FeedPrefix(feed string) string {
	return fmt.Sprintf("feed:%s:", feed)
}

// Stats counts lookups, for benchmarks and logs.
type Stats struct {
	Hits   int64
	Misses int64
	Sets   int64
}

type counters struct {
	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Sets: c.sets.Load()}
}

func (c *counters) reset() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.sets.Store(0)
}

// NopCache never stores anything; used when Redis is not configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (NopCache) Set(context.Context, string, interface{}) error { return nil }

func (NopCache) Invalidate(context.Context, string) error { return nil }
