package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leonardcser/gh-cards/internal/config"
)

func TestOpenStore(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.Config{
		CacheFile: filepath.Join(dir, "cache.json"),
		CacheDB:   filepath.Join(dir, "cache.bbolt"),
		CacheSock: filepath.Join(dir, "cache.sock"),
	}

	tests := []struct {
		backend string
		want    Store
	}{
		{config.BackendMemory, &MemoryStore{}},
		{config.BackendFile, &FileStore{}},
		{config.BackendBolt, &BoltStore{}},
		{config.BackendDaemon, &Client{}},
	}
	for _, tt := range tests {
		cfg.Backend = tt.backend
		s, closeFn, err := OpenStore(cfg)
		require.NoError(t, err, tt.backend)
		assert.IsType(t, tt.want, s, tt.backend)
		assert.NoError(t, closeFn())
	}

	cfg.Backend = "redis"
	_, _, err := OpenStore(cfg)
	assert.Error(t, err)
}
