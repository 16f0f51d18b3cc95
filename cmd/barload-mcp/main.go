package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/barload/internal/config"
	"github.com/meltforce/barload/internal/mcp"
	"github.com/meltforce/barload/internal/planner"
	"github.com/meltforce/barload/internal/plates"
	"github.com/meltforce/barload/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (local mode; defaults apply when empty)")
	serverURL := flag.String("server", "", "barload server URL for remote mode (e.g. https://barload.tail1234.ts.net)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("barload-mcp", Version)
		return
	}

	// stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var backend mcp.Backend
	if *serverURL != "" {
		backend = mcp.NewHTTPClient(*serverURL)
		log.Info("remote mode", "server", *serverURL)
	} else {
		p, closeFn, err := localPlanner(*configPath, log)
		if err != nil {
			log.Error("failed to start local planner", "error", err)
			os.Exit(1)
		}
		defer closeFn()
		backend = p
		log.Info("local mode", "history", p.HistoryEnabled())
	}

	s := mcp.New(backend, Version, log)
	err := server.ServeStdio(s, server.WithStdioContextFunc(func(ctx context.Context) context.Context {
		return mcp.WithUser(ctx, mcp.DefaultUser)
	}))
	if err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

// localPlanner builds a planner from the config file. Only a SQLite history
// is opened here; a PostgreSQL history is reached through -server.
func localPlanner(path string, log *slog.Logger) (*planner.Planner, func(), error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, nil, err
		}
	}

	inv, err := cfg.Inventory.Build()
	if err != nil {
		return nil, nil, err
	}
	calc := plates.NewCalculator(inv)

	if cfg.Database.Driver != config.DriverSQLite {
		return planner.New(calc, nil, log), func() {}, nil
	}
	db, err := storage.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return planner.New(calc, db, log), func() { db.Close() }, nil
}
