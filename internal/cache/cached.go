package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/leonardcser/gh-cards/internal/config"
	"github.com/leonardcser/gh-cards/internal/logger"
)

// DefaultTTL is how long a fetched payload is served from the cache.
const DefaultTTL = config.DefaultCacheTTL

// Fetcher retrieves the JSON document at url from upstream.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (json.RawMessage, error)
}

// Cached serves upstream JSON documents through a Store, fetching only when
// the stored entry is missing or older than the TTL.
type Cached struct {
	store   Store
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time
}

type Option func(*Cached)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cached) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock overrides the clock used for freshness checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cached) {
		if now != nil {
			c.now = now
		}
	}
}

func NewCached(store Store, fetcher Fetcher, opts ...Option) *Cached {
	c := &Cached{store: store, fetcher: fetcher, ttl: DefaultTTL, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TTL returns the freshness window in use.
func (c *Cached) TTL() time.Duration { return c.ttl }

// Get returns the payload for key, from the store when fresh and from the
// fetcher otherwise. Fetch failures are returned unchanged and leave the store
// untouched.
func (c *Cached) Get(ctx context.Context, key string) (json.RawMessage, error) {
	if err := c.store.Load(); err != nil {
		return nil, err
	}
	e, found, err := c.store.Get(key)
	if err != nil {
		return nil, err
	}
	if found && c.fresh(e) {
		logger.Debugf("cache hit %s", key)
		return e.Value, nil
	}
	logger.Debugf("cache miss %s (found=%t)", key, found)

	payload, err := c.fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	// Stores keep the compact form, so the miss returns it too.
	v, err := compactValue(payload)
	if err != nil {
		return nil, &StoreError{Op: "put", Err: err}
	}
	if err := c.store.Put(key, v); err != nil {
		return nil, err
	}
	return v, nil
}

// fresh compares in both directions so future-dated entries expire too.
func (c *Cached) fresh(e Entry) bool {
	age := c.now().Sub(e.FetchedAt)
	if age < 0 {
		age = -age
	}
	return age < c.ttl
}
