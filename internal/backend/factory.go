// Package backend selects and constructs the ledger source named by
// configuration: csv fixtures, a sqlite database or a Google sheet.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fpa/internal/fixtures"
	"fpa/internal/sheets"
	"fpa/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new source factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateSource implements Factory.CreateSource
func (f *DefaultFactory) CreateSource(ctx context.Context, config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case CSVBackend:
		return f.createCSVSource(config)
	case SQLiteBackend:
		return f.createSQLiteSource(config)
	case SheetsBackend:
		return f.createSheetsSource(ctx)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createCSVSource(config Config) (*Result, error) {
	dir := config.FixturesDir
	if dir == "" {
		dir = "fixtures"
	}

	src := fixtures.NewCSVSource(dir)

	f.logger.Info("Initialized csv backend", "fixtures_dir", dir)

	return &Result{
		Source:  src,
		Cleanup: nil,
	}, nil
}

func (f *DefaultFactory) createSQLiteSource(config Config) (*Result, error) {
	src, err := storage.Open(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite source: %w", err)
	}

	f.logger.Info("Initialized sqlite backend", "db_path", config.SQLiteDBPath)

	return &Result{
		Source:  src,
		Cleanup: src.Close,
	}, nil
}

func (f *DefaultFactory) createSheetsSource(ctx context.Context) (*Result, error) {
	src, err := sheets.NewFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets source: %w", err)
	}

	f.logger.Info("Initialized sheets backend")

	return &Result{
		Source:  src,
		Cleanup: nil,
	}, nil
}
