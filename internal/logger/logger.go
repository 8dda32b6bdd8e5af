package logger

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment variables to configure the log file path and level.
const (
	envLogPath  = "GHCARDS_LOG"
	envLogLevel = "GHCARDS_LOG_LEVEL"
)

var (
	mu      sync.Mutex
	logFile *os.File
	base    *zap.Logger
	sugar   atomic.Pointer[zap.SugaredLogger]
)

func init() {
	sugar.Store(zap.NewNop().Sugar())
}

// InitFromEnv initializes the logger using GHCARDS_LOG or a default path.
func InitFromEnv() error {
	path := os.Getenv(envLogPath)
	if path == "" {
		// Default to the directory where the executable is located
		if exePath, err := os.Executable(); err == nil {
			path = filepath.Join(filepath.Dir(exePath), "gh-cards.log")
		} else {
			path = "./gh-cards.log"
		}
	}
	level := zapcore.InfoLevel
	if v := os.Getenv(envLogLevel); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return err
		}
	}
	return Init(path, level)
}

// Init initializes the logger to write to the provided file path.
// It creates parent directories if needed and opens the file in append mode.
// Until Init succeeds all logging is discarded.
func Init(path string, level zapcore.Level) error {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		return nil
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(f), level)
	logFile = f
	base = zap.New(core)
	sugar.Store(base.Sugar())
	return nil
}

// Close flushes and closes the underlying log file, if open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	_ = base.Sync()
	sugar.Store(zap.NewNop().Sugar())
	err := logFile.Close()
	logFile = nil
	base = nil
	return err
}

// Debugf logs diagnostic messages.
func Debugf(format string, args ...any) { sugar.Load().Debugf(format, args...) }

// Infof logs informational messages.
func Infof(format string, args ...any) { sugar.Load().Infof(format, args...) }

// Warnf logs warnings.
func Warnf(format string, args ...any) { sugar.Load().Warnf(format, args...) }

// Errorf logs errors.
func Errorf(format string, args ...any) { sugar.Load().Errorf(format, args...) }

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
