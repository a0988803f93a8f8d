package backend

import (
	"context"

	"fpa/internal/ledger"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the source instance and optional cleanup function
type Result struct {
	Source  ledger.Source
	Cleanup CleanupFunc
}

// Factory creates ledger sources based on configuration
type Factory interface {
	// CreateSource creates a ledger source based on the provided config
	CreateSource(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for source creation
type Config struct {
	// Backend type
	Type BackendType

	// CSV specific
	FixturesDir string

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	SpreadsheetID string
}

// BackendType represents the type of data backend
type BackendType string

const (
	CSVBackend    BackendType = "csv"
	SQLiteBackend BackendType = "sqlite"
	SheetsBackend BackendType = "sheets"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case CSVBackend, SQLiteBackend, SheetsBackend:
		return true
	default:
		return false
	}
}
