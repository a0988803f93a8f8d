package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"fpa/internal/backend"
	"fpa/internal/cli"
	apphttp "fpa/internal/http"
	"fpa/internal/services"
)

func main() {
	importDir := flag.String("import", "", "import csv fixtures from this directory into the sqlite ledger and exit")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if *importDir != "" {
		if err := runImport(cfg.SQLiteDBPath, *importDir); err != nil {
			logger.Error("Import failed", "error", err, "fixtures_dir", *importDir)
			os.Exit(1)
		}
		logger.Info("Import complete", "fixtures_dir", *importDir, "db_path", cfg.SQLiteDBPath)
		return
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	factory := backend.NewFactory(logger)
	result, err := factory.CreateSource(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to create data source", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	copilot := services.NewCopilot(result.Source, cfg.SnapshotTTL, cfg.SnapshotCacheSize)
	srv := apphttp.NewServer(":"+cfg.Port, copilot)

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Source cleanup error", "error", err)
			}
		}
	}
	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, cleanup)

	logger.Info("Starting fpa server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
