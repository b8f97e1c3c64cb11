// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/icco/podcast/lib/config"
	"github.com/icco/podcast/lib/db"
	"gorm.io/gorm"
)

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Open returns a migrated sqlite database in a temporary directory. It is
// closed when the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		DBDriver: config.DriverSQLite,
		DBPath:   filepath.Join(t.TempDir(), "test.db"),
	}
	logger := Logger()

	gormDB, err := db.Open(cfg, logger)
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close(gormDB)
	})

	if err := db.RunMigrations(context.Background(), gormDB, logger); err != nil {
		t.Fatalf("db.RunMigrations: %v", err)
	}
	return gormDB
}
