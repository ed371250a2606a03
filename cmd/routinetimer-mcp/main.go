package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/routinetimer/internal/config"
	"github.com/claude/routinetimer/internal/mcp"
	"github.com/claude/routinetimer/internal/routine"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "routinetimer server URL; when empty, routines are read from the local config's routines_dir")
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("routinetimer-mcp", Version)
		return
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *serverURL != "" {
		ds = mcp.NewHTTPClient(*serverURL)
		log.Info("mcp remote mode", "server", *serverURL)
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		ds = mcp.NewLocalSource(routine.NewStore(cfg.Storage.RoutinesDir, log))
		log.Info("mcp local mode", "dir", cfg.Storage.RoutinesDir)
	}

	if err := server.ServeStdio(mcp.New(ds, Version, log)); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
