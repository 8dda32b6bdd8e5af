package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLogger(t *testing.T) {
	// Before Init everything is discarded.
	Infof("dropped %d", 1)

	path := filepath.Join(t.TempDir(), "logs", "gh-cards.log")
	require.NoError(t, Init(path, zapcore.InfoLevel))
	t.Cleanup(func() { _ = Close() })

	Debugf("hidden %s", "debug")
	Infof("cache miss %s", "https://api.example/repos/foo/bar")
	Warnf("slow upstream")
	Errorf("boom: %v", os.ErrNotExist)
	require.NoError(t, Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "INFO\tcache miss https://api.example/repos/foo/bar")
	assert.Contains(t, out, "WARN\tslow upstream")
	assert.Contains(t, out, "ERROR\tboom: file does not exist")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "dropped")

	// Logging after Close is a no-op again.
	Infof("after close")
	assert.NoError(t, Close())
}

func TestInitFromEnvLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	t.Setenv(envLogPath, path)
	t.Setenv(envLogLevel, "debug")
	require.NoError(t, InitFromEnv())
	Debugf("visible")
	require.NoError(t, Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "DEBUG\tvisible")

	t.Setenv(envLogLevel, "loud")
	assert.Error(t, InitFromEnv())
}
