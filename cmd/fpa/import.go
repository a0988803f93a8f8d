package main

import (
	"context"
	"fmt"
	"time"

	"fpa/internal/fixtures"
	"fpa/internal/storage"
)

// runImport loads the csv fixtures and replaces the sqlite ledger
// contents with them.
func runImport(dbPath, fixturesDir string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	snap, err := fixtures.NewCSVSource(fixturesDir).Load(ctx)
	if err != nil {
		return fmt.Errorf("load fixtures: %w", err)
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer db.Close()

	if err := db.ImportSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("import snapshot: %w", err)
	}
	return nil
}
