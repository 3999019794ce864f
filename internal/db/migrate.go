package db

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/diewo77/go-safety/internal/models"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration modes accepted by RunMigrations.
const (
	MigrateAuto = "auto"
	MigrateSQL  = "sql"
	MigrateOff  = "off"
)

// requiredTables must exist after any migration run.
var requiredTables = []string{"users", "route_access", "lookup_items", "incidents", "capas"}

// Migrate creates or updates the schema from the gorm models.
func Migrate(db *gorm.DB) error {
	for _, m := range models.All() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// ApplySQLMigrations runs the embedded SQL migrations against a postgres URL.
func ApplySQLMigrations(databaseURL string, log *slog.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migration source: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, MigrationURL(databaseURL))
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, _ := m.Version()
	log.Info("sql migrations applied", "version", version, "dirty", dirty)
	return nil
}

// RunMigrations applies the schema according to mode. SQL migrations only
// target postgres; sqlite always uses AutoMigrate.
func RunMigrations(db *gorm.DB, mode, databaseURL string, log *slog.Logger) error {
	switch mode {
	case MigrateOff:
		log.Info("migrations disabled")
		return nil
	case MigrateSQL:
		if db.Dialector.Name() == "postgres" {
			if err := ApplySQLMigrations(databaseURL, log); err != nil {
				return err
			}
			break
		}
		log.Warn("sql migrations need postgres, falling back to automigrate", "dialect", db.Dialector.Name())
		fallthrough
	case MigrateAuto, "":
		if err := Migrate(db); err != nil {
			return err
		}
		log.Info("automigrate completed")
	default:
		return fmt.Errorf("unknown MIGRATIONS mode %q", mode)
	}
	for _, table := range requiredTables {
		if !db.Migrator().HasTable(table) {
			return errors.New("missing table after migration: " + table)
		}
	}
	return nil
}
