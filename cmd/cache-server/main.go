package main

import (
	"net"
	"os"
	"path/filepath"

	"github.com/leonardcser/gh-cards/internal/cache"
	"github.com/leonardcser/gh-cards/internal/config"
	"github.com/leonardcser/gh-cards/internal/logger"
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Close()

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Errorf("Invalid configuration: %v", err)
		panic(err)
	}
	sock := cfg.CacheSock

	// Ensure socket and database dirs exist and remove stale socket
	_ = os.MkdirAll(filepath.Dir(sock), 0o755)
	_ = os.MkdirAll(filepath.Dir(cfg.CacheDB), 0o755)
	_ = os.Remove(sock)

	l, err := net.Listen("unix", sock)
	if err != nil {
		logger.Errorf("Failed to listen on %s: %v", sock, err)
		panic(err)
	}
	defer l.Close()
	_ = os.Chmod(sock, 0o600)

	store, err := cache.OpenBoltStore(cfg.CacheDB, cache.BoltOptions{Bucket: "github"})
	if err != nil {
		logger.Errorf("Failed to open cache database %s: %v", cfg.CacheDB, err)
		panic(err)
	}
	defer store.Close()

	logger.Infof("Cache daemon serving %s on %s", cfg.CacheDB, sock)
	if err := cache.Serve(l, store); err != nil {
		logger.Errorf("cache daemon: %v", err)
	}
}
