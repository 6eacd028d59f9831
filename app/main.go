package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geopulse/geopulse/app/api"
	"github.com/geopulse/geopulse/app/artifacts"
	"github.com/geopulse/geopulse/app/catalog"
	"github.com/geopulse/geopulse/app/cfg"
	"github.com/geopulse/geopulse/app/database"
	"github.com/geopulse/geopulse/app/pipeline"
	"github.com/geopulse/geopulse/app/rules"
	"github.com/geopulse/geopulse/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting GEO Pulse server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	ruleset, err := rules.Load(appCfg.RulesFile)
	if err != nil {
		slog.Error("Failed to load rules", "file", appCfg.RulesFile, "error", err)
		os.Exit(1)
	}

	companyCatalog, err := catalog.Load(appCfg.CompaniesFile())
	if err != nil {
		slog.Error("Failed to load company catalog", "file", appCfg.CompaniesFile(), "error", err)
		os.Exit(1)
	}
	slog.Info("Company catalog loaded", "companies", companyCatalog.AliasCount())

	knownDomains, err := catalog.LoadKnownDomains(appCfg.SourcesFile())
	if err != nil {
		slog.Warn("Failed to load monitored sources, discovery will not exclude them", "file", appCfg.SourcesFile(), "error", err)
	}

	store := artifacts.NewStore(appCfg.DataDir)
	postRepo := database.NewPostRepository(db)
	runRepo := database.NewRunRepository(db)

	runner := pipeline.NewRunner(ruleset, companyCatalog, knownDomains, store, postRepo, runRepo, appCfg.MaxAgeDays)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(runner, store)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(store, postRepo, runRepo, runner, scheduler)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("GEO Pulse server started")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("GEO Pulse server shutdown complete")
}
