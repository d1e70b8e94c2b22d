package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/claude/fittrack/internal/config"
	"github.com/claude/fittrack/internal/mcp"
	"github.com/claude/fittrack/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (local mode, opens the database directly)")
	serverURL := flag.String("url", "", "FitTrack server base URL (remote mode, e.g. http://fittrack:8080)")
	flag.Parse()

	// stdout carries the MCP transport; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	switch {
	case *serverURL != "":
		apiKey := os.Getenv("FITTRACK_API_KEY")
		if apiKey == "" {
			log.Error("FITTRACK_API_KEY is required in remote mode")
			os.Exit(1)
		}
		ds = mcp.NewHTTPClient(*serverURL, apiKey)
		log.Info("remote mode", "url", *serverURL)

	case *configPath != "":
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.Open(cfg.Database.Path)
		if err != nil {
			log.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = db
		log.Info("local mode", "path", cfg.Database.Path)

	default:
		log.Error("either -config or -url is required")
		os.Exit(1)
	}

	s := mcp.New(ds, Version, log)
	if err := mcpserver.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
