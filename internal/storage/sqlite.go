// Package storage persists the four ledger tables in SQLite and serves
// snapshots from them. The schema is managed with embedded migrations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fpa/internal/core"
	"fpa/internal/ledger"

	_ "modernc.org/sqlite"
)

// SQLiteSource is a ledger.Source backed by a local SQLite database.
type SQLiteSource struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at dbPath and runs
// migrations.
func Open(dbPath string) (*SQLiteSource, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteSource{db: db, path: dbPath}, nil
}

func (s *SQLiteSource) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteSource) Name() string {
	return "sqlite:" + s.path
}

// Load reads all four tables in insertion order and returns a fresh
// snapshot. Months are normalized on read so imports from looser sources
// stay canonical.
func (s *SQLiteSource) Load(ctx context.Context) (*ledger.Snapshot, error) {
	snap := &ledger.Snapshot{}
	var err error

	if snap.Actuals, err = s.loadRecords(ctx, ledger.TableActuals); err != nil {
		return nil, err
	}
	if snap.Budget, err = s.loadRecords(ctx, ledger.TableBudget); err != nil {
		return nil, err
	}
	if snap.Cash, err = s.loadCash(ctx); err != nil {
		return nil, err
	}
	if snap.Fx, err = s.loadFx(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *SQLiteSource) loadRecords(ctx context.Context, table string) ([]core.Record, error) {
	// Table names come from the fixed ledger constants, never from input.
	query := fmt.Sprintf("SELECT month, entity, account_category, amount, currency FROM %s ORDER BY id", table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapTableErr(table, err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		var r core.Record
		if err := rows.Scan(&r.Month, &r.Entity, &r.AccountCategory, &r.Amount, &r.Currency); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		if r.Month, err = core.NormalizeMonth(r.Month); err != nil {
			return nil, fmt.Errorf("%s: %w", table, err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteSource) loadCash(ctx context.Context) ([]core.CashRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT month, cash_usd FROM cash ORDER BY id")
	if err != nil {
		return nil, wrapTableErr(ledger.TableCash, err)
	}
	defer rows.Close()

	var records []core.CashRecord
	for rows.Next() {
		var r core.CashRecord
		if err := rows.Scan(&r.Month, &r.CashUSD); err != nil {
			return nil, fmt.Errorf("scan cash: %w", err)
		}
		if r.Month, err = core.NormalizeMonth(r.Month); err != nil {
			return nil, fmt.Errorf("cash: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (s *SQLiteSource) loadFx(ctx context.Context) ([]core.FxRate, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT month, currency, rate_to_usd FROM fx ORDER BY id")
	if err != nil {
		return nil, wrapTableErr(ledger.TableFx, err)
	}
	defer rows.Close()

	var rates []core.FxRate
	for rows.Next() {
		var r core.FxRate
		if err := rows.Scan(&r.Month, &r.Currency, &r.RateToUSD); err != nil {
			return nil, fmt.Errorf("scan fx: %w", err)
		}
		if r.Month, err = core.NormalizeMonth(r.Month); err != nil {
			return nil, fmt.Errorf("fx: %w", err)
		}
		rates = append(rates, r)
	}
	return rates, rows.Err()
}

// ImportSnapshot replaces the database contents with the given snapshot
// in a single transaction. Used by the CSV import path.
func (s *SQLiteSource) ImportSnapshot(ctx context.Context, snap *ledger.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{ledger.TableActuals, ledger.TableBudget, ledger.TableCash, ledger.TableFx} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for table, records := range map[string][]core.Record{
		ledger.TableActuals: snap.Actuals,
		ledger.TableBudget:  snap.Budget,
	} {
		stmt := fmt.Sprintf("INSERT INTO %s (month, entity, account_category, amount, currency) VALUES (?, ?, ?, ?, ?)", table)
		for _, r := range records {
			if _, err := tx.ExecContext(ctx, stmt, r.Month, r.Entity, r.AccountCategory, r.Amount, r.Currency); err != nil {
				return fmt.Errorf("insert %s: %w", table, err)
			}
		}
	}
	for _, r := range snap.Cash {
		if _, err := tx.ExecContext(ctx, "INSERT INTO cash (month, cash_usd) VALUES (?, ?)", r.Month, r.CashUSD); err != nil {
			return fmt.Errorf("insert cash: %w", err)
		}
	}
	for _, r := range snap.Fx {
		if _, err := tx.ExecContext(ctx, "INSERT INTO fx (month, currency, rate_to_usd) VALUES (?, ?, ?)", r.Month, r.Currency, r.RateToUSD); err != nil {
			return fmt.Errorf("insert fx: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Imported ledger snapshot",
		"actuals", len(snap.Actuals),
		"budget", len(snap.Budget),
		"cash", len(snap.Cash),
		"fx", len(snap.Fx),
		"db_path", s.path)
	return nil
}

func wrapTableErr(table string, err error) error {
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: %s (%v)", core.ErrMissingFixture, table, err)
	}
	return fmt.Errorf("query %s: %w", table, err)
}
