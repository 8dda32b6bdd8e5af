package cache

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Entry is a cached upstream payload together with the time it was fetched.
type Entry struct {
	FetchedAt time.Time
	Value     json.RawMessage
}

// Store is the key-value contract behind Cached. Keys are canonical request URLs.
// Implementations must be safe for concurrent use by multiple goroutines.
type Store interface {
	// Load refreshes the store from its backing storage. Stores without a
	// separate load step treat it as a no-op.
	Load() error
	// Get returns the entry for key and whether it was present.
	Get(key string) (Entry, bool, error)
	// Put inserts or overwrites the entry for key, stamped with the store clock.
	Put(key string, value json.RawMessage) error
}

// StoreOption configures a store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	now func() time.Time
}

// WithStoreClock overrides the clock used to stamp entries on Put.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(c *storeConfig) {
		if now != nil {
			c.now = now
		}
	}
}

func newStoreConfig(opts []StoreOption) storeConfig {
	cfg := storeConfig{now: time.Now}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

// compactValue returns value with insignificant whitespace removed so that a
// payload survives a pretty-printed round trip byte for byte.
func compactValue(value []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return nil, fmt.Errorf("compact value: %w", err)
	}
	return json.RawMessage(buf.Bytes()), nil
}

func cloneValue(v json.RawMessage) json.RawMessage {
	if v == nil {
		return nil
	}
	return append(json.RawMessage(nil), v...)
}
