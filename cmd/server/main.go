package main

import (
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leonardcser/gh-cards/internal/cache"
	"github.com/leonardcser/gh-cards/internal/card"
	"github.com/leonardcser/gh-cards/internal/config"
	"github.com/leonardcser/gh-cards/internal/logger"
	"github.com/leonardcser/gh-cards/internal/tools"
	"github.com/leonardcser/gh-cards/internal/web"
)

const daemonBinary = "gh-cards-cache"

func main() {
	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Infof("Starting gh-cards MCP server")

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Errorf("Invalid configuration: %v", err)
		panic(err)
	}

	if cfg.Backend == config.BackendDaemon {
		ensureCacheDaemon(cfg.CacheSock)
	}
	store, closeStore, err := cache.OpenStore(cfg)
	if err != nil {
		logger.Errorf("Failed to open %s cache: %v", cfg.Backend, err)
		panic(err)
	}
	defer closeStore()
	logger.Infof("Using %s cache backend (ttl %s)", cfg.Backend, cfg.CacheTTL)

	fetcher := web.NewFetcher(web.WithTimeout(cfg.RequestTimeout), web.WithToken(cfg.Token))
	cached := cache.NewCached(store, fetcher, cache.WithTTL(cfg.CacheTTL))
	renderer := card.NewRenderer(cached, card.WithAPIBase(cfg.APIBase), card.WithColorsURL(cfg.ColorsURL))

	s := server.NewMCPServer(
		"gh-cards",
		"0.1.0",
		server.WithRecovery(),
		server.WithToolCapabilities(false),
	)

	repoOpts := append([]mcp.ToolOption{
		mcp.WithDescription(multiline(
			"Renders a GitHub repository as an embeddable SVG card",
			"\nFunctionality:",
			"- Takes a repository as owner/name",
			"- Shows owner, name, description, language, stars, forks and last update",
			"- Returns the SVG document as text",
			"\nUsage notes:",
			"- Optional color arguments override the dark default theme",
			"- GitHub responses are cached for one hour by default",
		)),
		mcp.WithString("repo", mcp.Required(), mcp.Description("Repository as owner/name")),
	}, tools.ThemeOptions()...)
	s.AddTool(mcp.NewTool("repo-card", repoOpts...), tools.RepoCardHandler(renderer))
	logger.Infof("Registered repo-card tool")

	gistOpts := append([]mcp.ToolOption{
		mcp.WithDescription(multiline(
			"Renders a GitHub gist as an embeddable SVG card",
			"\nFunctionality:",
			"- Takes a gist id",
			"- Shows owner, description (or first file name) and the first file's content",
			"- Returns the SVG document as text",
		)),
		mcp.WithString("id", mcp.Required(), mcp.Description("The gist id")),
	}, tools.ThemeOptions()...)
	s.AddTool(mcp.NewTool("gist-card", gistOpts...), tools.GistCardHandler(renderer))
	logger.Infof("Registered gist-card tool")

	logger.Infof("Starting MCP server on stdio")
	if err := server.ServeStdio(s); err != nil {
		logger.Errorf("server error: %v", err)
	}
}

// multiline joins lines with newlines for tool descriptions.
func multiline(lines ...string) string { return strings.Join(lines, "\n") }

// ensureCacheDaemon starts the cache daemon if its socket is not answering
// and waits for it to come up.
func ensureCacheDaemon(sock string) {
	logger.Infof("Attempting to connect to cache daemon at %s", sock)
	if probe(sock) == nil {
		logger.Infof("Successfully connected to cache daemon")
		return
	}
	logger.Warnf("Cache daemon not reachable, attempting to start it")
	if err := startCacheDaemon(); err != nil {
		logger.Errorf("Failed to start cache daemon: %v", err)
	}
	var err error
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err = probe(sock); err == nil {
			logger.Infof("Successfully connected to cache daemon")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	logger.Errorf("Failed to connect to cache daemon after startup attempt: %v", err)
	panic(err)
}

func probe(sock string) error {
	conn, err := net.DialTimeout("unix", sock, 200*time.Millisecond)
	if err != nil {
		return err
	}
	return conn.Close()
}

func startCacheDaemon() error {
	// 1) Try cache binary next to this server executable
	if exePath, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(exePath), daemonBinary)
		if _, statErr := os.Stat(sibling); statErr == nil {
			return spawn(sibling)
		}
	}
	// 2) Try PATH binary
	if path, err := exec.LookPath(daemonBinary); err == nil {
		return spawn(path)
	}
	// 3) Try local binary in current working directory
	if _, err := os.Stat("./" + daemonBinary); err == nil {
		return spawn("./" + daemonBinary)
	}
	return exec.ErrNotFound
}

func spawn(path string) error {
	cmd := exec.Command(path)
	cmd.Env = os.Environ()
	return cmd.Start()
}
