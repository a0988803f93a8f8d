package backend

import (
	"context"
	"testing"

	"fpa/internal/config"
)

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		DataBackend:   "csv",
		FixturesDir:   "./fixtures",
		SQLiteDBPath:  "./data/fpa.db",
		SpreadsheetID: "sheet-123",
	}

	cfg, err := FromAppConfig(appCfg)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != CSVBackend || cfg.FixturesDir != "./fixtures" {
		t.Errorf("config = %+v", cfg)
	}

	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil app config")
	}

	appCfg.DataBackend = "nope"
	if _, err := FromAppConfig(appCfg); err == nil {
		t.Error("expected error for invalid backend type")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"valid csv", Config{Type: CSVBackend, FixturesDir: "./fixtures"}, false},
		{"csv missing dir", Config{Type: CSVBackend}, true},
		{"valid sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: "./test.db"}, false},
		{"sqlite missing path", Config{Type: SQLiteBackend}, true},
		{"valid sheets", Config{Type: SheetsBackend, SpreadsheetID: "abc"}, false},
		{"sheets missing id", Config{Type: SheetsBackend}, true},
		{"unknown type", Config{Type: "redis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateCSVSource(t *testing.T) {
	factory := NewFactory(nil)
	result, err := factory.CreateSource(context.Background(), Config{
		Type:        CSVBackend,
		FixturesDir: t.TempDir(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Source == nil {
		t.Fatal("expected a source")
	}
	if result.Cleanup != nil {
		t.Error("csv source needs no cleanup")
	}
}
