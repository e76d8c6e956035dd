// Package dbtest opens throwaway SQLite databases with the production schema.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ManuelReschke/ReviewDesk/internal/pkg/database"
)

// Open returns a migrated database in a temp directory, closed at test end.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := database.Config{
		Driver:       database.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), uuid.NewString()+".db"),
		MaxOpenConns: 4,
		LogLevel:     logger.Silent,
	}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
