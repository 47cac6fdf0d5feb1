package repo

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTemp opens a fresh study database under t.TempDir through OpenSQLite.
func openTemp(t *testing.T, opts ...Option) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "study.db"), opts...)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	closeOnCleanup(t, db)
	return db
}

// newRepoDB opens a bare database without the PRAGMAs of OpenSQLite, so
// rows can be seeded without their parents, and migrates models. With no
// models the schema stays empty and every query fails.
func newRepoDB(t *testing.T, models ...any) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "repo.db")), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	closeOnCleanup(t, db)
	if len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}
	return db
}

func closeOnCleanup(t *testing.T, db *gorm.DB) {
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
}
