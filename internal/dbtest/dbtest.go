// Package dbtest opens migrated in-memory sqlite databases for tests.
package dbtest

import (
	"strings"
	"testing"

	"github.com/diewo77/go-safety/internal/db"
	"gorm.io/gorm"
)

// New returns a fresh migrated in-memory database named after the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	d, err := db.OpenSQLite("file:"+name+"?mode=memory&cache=shared", nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Migrate(d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := d.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return d
}
