package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meltforce/barload/internal/config"
	"github.com/meltforce/barload/internal/mcp"
	"github.com/meltforce/barload/internal/planner"
	"github.com/meltforce/barload/internal/plates"
	"github.com/meltforce/barload/internal/server"
	"github.com/meltforce/barload/internal/storage"
	"tailscale.com/tsnet"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	migrateOnly := flag.Bool("migrate-only", false, "run migrations and exit")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	log.Info("barload starting", "version", Version)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	inv, err := cfg.Inventory.Build()
	if err != nil {
		log.Error("invalid inventory", "error", err)
		os.Exit(1)
	}
	log.Info("inventory loaded", "plates", inv.Plates(), "barbells", len(inv.Barbells()), "collar_kg", inv.CollarKg())

	// Open history store
	ctx := context.Background()
	history, closeHistory, err := openHistory(ctx, cfg.Database, *migrateOnly, log)
	if err != nil {
		log.Error("failed to open history", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeHistory()

	if *migrateOnly {
		log.Info("migrate-only: exiting")
		return
	}

	p := planner.New(plates.NewCalculator(inv), history, log)

	// Create server
	srv := server.New(p, cfg.Auth.APIKey, log)
	srv.SetMCP(mcp.HTTPHandler(mcp.New(p, Version, log), func(r *http.Request) string {
		return server.UserFromRequest(r).Login
	}))

	// Start server: tsnet or plain HTTP
	var listener net.Listener
	var tsServer *tsnet.Server

	if cfg.Tailscale.Enabled {
		tsServer = &tsnet.Server{
			Hostname: cfg.Tailscale.Hostname,
			Dir:      cfg.Tailscale.StateDir,
		}
		if err := tsServer.Start(); err != nil {
			log.Error("tsnet start failed", "error", err)
			os.Exit(1)
		}
		defer tsServer.Close()

		lc, err := tsServer.LocalClient()
		if err != nil {
			log.Error("tsnet local client failed", "error", err)
			os.Exit(1)
		}
		srv.SetTailscale(lc)

		listener, err = tsServer.Listen("tcp", ":80")
		if err != nil {
			log.Error("tsnet listen failed", "error", err)
			os.Exit(1)
		}
		log.Info("tsnet server starting", "hostname", cfg.Tailscale.Hostname)
	} else {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		listener, err = net.Listen("tcp", addr)
		if err != nil {
			log.Error("listen failed", "addr", addr, "error", err)
			os.Exit(1)
		}
		log.Info("server starting", "addr", addr, "mode", "dev (no tailscale)")
	}

	httpSrv := &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Info("shutting down", "signal", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}

// openHistory opens the configured store. With no driver it returns a nil
// History, which turns recording off.
func openHistory(ctx context.Context, db config.DatabaseConfig, migrateOnly bool, log *slog.Logger) (planner.History, func(), error) {
	switch db.Driver {
	case config.DriverPostgres:
		dsn := db.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		log.Info("migrations applied")
		if migrateOnly {
			return nil, func() {}, nil
		}
		pg, err := storage.New(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		log.Info("database connected", "driver", db.Driver, "host", db.Host)
		return pg, func() { pg.Close() }, nil

	case config.DriverSQLite:
		lite, err := storage.OpenSQLite(db.Path)
		if err != nil {
			return nil, nil, err
		}
		log.Info("database opened", "driver", db.Driver, "path", db.Path)
		return lite, func() { lite.Close() }, nil

	default:
		log.Info("history disabled: no database configured")
		return nil, func() {}, nil
	}
}
