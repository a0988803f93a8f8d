// Package fixtures loads ledger snapshots from local tabular fixtures: a
// directory of CSV files (one per table) or an in-memory table set for
// tests and demos.
package fixtures

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"fpa/internal/core"
	"fpa/internal/ledger"
)

// CSVSource reads the four tables from <dir>/{actuals,budget,cash,fx}.csv.
type CSVSource struct {
	dir string
}

func NewCSVSource(dir string) *CSVSource {
	return &CSVSource{dir: dir}
}

func (s *CSVSource) Name() string {
	return "csv:" + s.dir
}

// Load reads all four tables concurrently and returns a fresh snapshot.
// A missing file fails with core.ErrMissingFixture wrapped with the table
// name; an unparseable month or amount fails the load outright.
func (s *CSVSource) Load(ctx context.Context) (*ledger.Snapshot, error) {
	snap := &ledger.Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		header, rows, err := s.readTable(ctx, ledger.TableActuals)
		if err != nil {
			return err
		}
		snap.Actuals, err = ledger.ParseRecords(ledger.TableActuals, header, rows)
		return err
	})
	g.Go(func() error {
		header, rows, err := s.readTable(ctx, ledger.TableBudget)
		if err != nil {
			return err
		}
		snap.Budget, err = ledger.ParseRecords(ledger.TableBudget, header, rows)
		return err
	})
	g.Go(func() error {
		header, rows, err := s.readTable(ctx, ledger.TableCash)
		if err != nil {
			return err
		}
		snap.Cash, err = ledger.ParseCashRecords(ledger.TableCash, header, rows)
		return err
	})
	g.Go(func() error {
		header, rows, err := s.readTable(ctx, ledger.TableFx)
		if err != nil {
			return err
		}
		snap.Fx, err = ledger.ParseFxRates(ledger.TableFx, header, rows)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *CSVSource) readTable(ctx context.Context, table string) ([]string, [][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	path := filepath.Join(s.dir, table+".csv")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s (%s)", core.ErrMissingFixture, table, path)
		}
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tables are validated by header, not width
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("%w: %s is empty", core.ErrMissingFixture, table)
	}
	return all[0], all[1:], nil
}
