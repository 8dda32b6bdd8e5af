package cache

import (
	"fmt"

	"github.com/leonardcser/gh-cards/internal/config"
)

// OpenStore returns the Store selected by cfg.Backend and a function that
// releases it.
func OpenStore(cfg config.Config) (Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemoryStore(), noop, nil
	case config.BackendFile:
		return NewFileStore(cfg.CacheFile), noop, nil
	case config.BackendBolt:
		s, err := OpenBoltStore(cfg.CacheDB, BoltOptions{Bucket: "github"})
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendDaemon:
		return NewClient(cfg.CacheSock), noop, nil
	default:
		return nil, nil, fmt.Errorf("cache: unknown backend %q", cfg.Backend)
	}
}
