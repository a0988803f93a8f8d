// Package sheets loads ledger snapshots from a Google Spreadsheet with
// one tab per table (actuals, budget, cash, fx), each laid out with a
// header row matching the CSV fixture schema.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fpa/internal/core"
	"fpa/internal/ledger"
)

type Source struct {
	svc           *gsheet.Service
	spreadsheetID string
}

// NewFromEnv creates a Sheets-backed source using environment variables.
// Required: FPA_SPREADSHEET_ID. Auth uses GOOGLE_SERVICE_ACCOUNT_JSON,
// GOOGLE_SERVICE_ACCOUNT_FILE, or Application Default Credentials, in
// that order.
func NewFromEnv(ctx context.Context) (*Source, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("FPA_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing FPA_SPREADSHEET_ID")
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Source{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	opts := []goption.ClientOption{
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope),
	}

	switch {
	case os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON") != "":
		slog.DebugContext(ctx, "Authenticating to Sheets with inline service account JSON")
		opts = append(opts, goption.WithCredentialsJSON([]byte(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))))
	case os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE") != "":
		slog.DebugContext(ctx, "Authenticating to Sheets with service account file",
			"file", os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
		opts = append(opts, goption.WithCredentialsFile(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE")))
	default:
		slog.DebugContext(ctx, "Authenticating to Sheets with application default credentials")
	}

	return gsheet.NewService(ctx, opts...)
}

func (s *Source) Name() string {
	return "sheets:" + s.spreadsheetID
}

// Load reads the four tabs and returns a fresh snapshot. A tab that does
// not exist fails with core.ErrMissingFixture wrapped with the table name.
func (s *Source) Load(ctx context.Context) (*ledger.Snapshot, error) {
	snap := &ledger.Snapshot{}

	header, rows, err := s.readTab(ctx, ledger.TableActuals)
	if err != nil {
		return nil, err
	}
	if snap.Actuals, err = ledger.ParseRecords(ledger.TableActuals, header, rows); err != nil {
		return nil, err
	}

	header, rows, err = s.readTab(ctx, ledger.TableBudget)
	if err != nil {
		return nil, err
	}
	if snap.Budget, err = ledger.ParseRecords(ledger.TableBudget, header, rows); err != nil {
		return nil, err
	}

	header, rows, err = s.readTab(ctx, ledger.TableCash)
	if err != nil {
		return nil, err
	}
	if snap.Cash, err = ledger.ParseCashRecords(ledger.TableCash, header, rows); err != nil {
		return nil, err
	}

	header, rows, err = s.readTab(ctx, ledger.TableFx)
	if err != nil {
		return nil, err
	}
	if snap.Fx, err = ledger.ParseFxRates(ledger.TableFx, header, rows); err != nil {
		return nil, err
	}

	return snap, nil
}

func (s *Source) readTab(ctx context.Context, table string) ([]string, [][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, table+"!A1:Z").
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		// The API reports an unknown tab as an unparseable range.
		if strings.Contains(err.Error(), "Unable to parse range") {
			return nil, nil, fmt.Errorf("%w: %s", core.ErrMissingFixture, table)
		}
		return nil, nil, fmt.Errorf("read tab %s: %w", table, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, fmt.Errorf("%w: %s is empty", core.ErrMissingFixture, table)
	}

	header := cellsToStrings(resp.Values[0])
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		rows = append(rows, cellsToStrings(raw))
	}
	return header, rows, nil
}

// cellsToStrings flattens API cell values to strings; unformatted date
// cells arrive as serial numbers, which month normalization understands.
func cellsToStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case string:
			out[i] = v
		case float64:
			out[i] = trimFloat(v)
		default:
			out[i] = fmt.Sprintf("%v", c)
		}
	}
	return out
}

func trimFloat(v float64) string {
	s := fmt.Sprintf("%f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
