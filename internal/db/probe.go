package db

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/diewo77/go-safety/internal/config"
	_ "github.com/microsoft/go-mssqldb"
	"gorm.io/gorm"
)

// Probe checks database connectivity with a trivial query. The target pool
// is opened once, on first use, and reused afterwards.
type Probe struct {
	once  sync.Once
	open  func() (*sql.DB, error)
	owned bool
	db    *sql.DB
	err   error
}

// NewProbe targets the SQL Server described by cfg when configured,
// otherwise the primary database.
func NewProbe(cfg config.ProbeConfig, primary *gorm.DB) *Probe {
	if cfg.Enabled() {
		dsn := cfg.DSN()
		return &Probe{owned: true, open: func() (*sql.DB, error) {
			return sql.Open("sqlserver", dsn)
		}}
	}
	return &Probe{open: primary.DB}
}

// NewProbeWithDB probes an already opened pool that the caller owns.
func NewProbeWithDB(db *sql.DB) *Probe {
	return &Probe{open: func() (*sql.DB, error) { return db, nil }}
}

// Target reports which database the probe talks to.
func (p *Probe) Target() string {
	if p.owned {
		return "mssql"
	}
	return "primary"
}

// Ping runs SELECT 1 and checks the result.
func (p *Probe) Ping(ctx context.Context) error {
	p.once.Do(func() { p.db, p.err = p.open() })
	if p.err != nil {
		return fmt.Errorf("open probe connection: %w", p.err)
	}
	var ok int
	if err := p.db.QueryRowContext(ctx, "SELECT 1 AS ok").Scan(&ok); err != nil {
		return fmt.Errorf("probe query: %w", err)
	}
	if ok != 1 {
		return fmt.Errorf("probe query returned %d", ok)
	}
	return nil
}

// Close releases the probe pool if the probe opened it.
func (p *Probe) Close() error {
	if p.owned && p.db != nil {
		return p.db.Close()
	}
	return nil
}
