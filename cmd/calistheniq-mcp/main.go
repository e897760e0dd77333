// Package main runs the CalisthenIQ MCP server over stdio. It can either
// open the configured store directly (local mode) or proxy a running
// CalisthenIQ server over its REST API (remote mode via -url).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/calistheniq/internal/config"
	"github.com/claude/calistheniq/internal/mcp"
	"github.com/claude/calistheniq/internal/storage"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	serverURL := flag.String("url", "", "CalisthenIQ server URL (remote mode, e.g. https://calistheniq.tail1234.ts.net)")
	apiKey := flag.String("api-key", "", "API key for write tools in remote mode (defaults to CALISTHENIQ_AUTH_API_KEY)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(Version)
		return
	}

	// stdout carries the MCP transport, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *serverURL != "" {
		key := *apiKey
		if key == "" {
			key = os.Getenv("CALISTHENIQ_AUTH_API_KEY")
		}
		ds = mcp.NewHTTPClient(*serverURL, key)
		log.Info("remote mode", "url", *serverURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		store, err := openStore(cfg)
		if err != nil {
			log.Error("failed to open store", "driver", cfg.Storage.Driver, "error", err)
			os.Exit(1)
		}
		defer store.Close()
		ds = mcp.NewLocal(store)
		log.Info("local mode", "driver", cfg.Storage.Driver)
	}

	mcpServer := mcp.New(ds, Version, log)
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

// openStore opens the configured backend. A memory store is refused: a
// one-shot stdio process would never see any data in it.
func openStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return storage.OpenSQLite(cfg.Storage.Path)
	case "postgres":
		return storage.NewPostgres(context.Background(), cfg.Database.DSN())
	default:
		return nil, fmt.Errorf("driver %q not usable in local mode; use -url for a running server", cfg.Storage.Driver)
	}
}
