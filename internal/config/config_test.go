package config

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "DATABASE_DSN", "SESSION_TTL", "ACCESS_CACHE_TTL", "MIGRATIONS", "SEED", "MSSQL_SERVER", "MSSQL_CONNECTION_STRING"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Server.Port != "8080" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("driver = %q", cfg.Database.Driver)
	}
	if cfg.Auth.SessionTTL != 720*time.Hour {
		t.Errorf("session ttl = %v", cfg.Auth.SessionTTL)
	}
	if cfg.Auth.AccessCacheTTL != 30*time.Second {
		t.Errorf("access cache ttl = %v", cfg.Auth.AccessCacheTTL)
	}
	if cfg.App.Migrations != "auto" || !cfg.App.Seed {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Probe.Enabled() {
		t.Error("probe should be disabled without MSSQL settings")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_NAME", "safety.db")
	t.Setenv("SERVER_READ_TIMEOUT", "5")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("SEED", "no")
	t.Setenv("MIGRATIONS", "SQL")
	cfg := Load()
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %q", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN() != "safety.db" {
		t.Errorf("database = %+v dsn=%q", cfg.Database, cfg.Database.DSN())
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("read timeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Auth.SessionTTL != 2*time.Hour {
		t.Errorf("session ttl = %v", cfg.Auth.SessionTTL)
	}
	if cfg.App.Seed {
		t.Error("SEED=no should disable seeding")
	}
	if cfg.App.Migrations != "sql" {
		t.Errorf("migrations = %q", cfg.App.Migrations)
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "safety", SSLMode: "disable"}
	if got, want := d.DSN(), "host=db port=5432 user=u password=p@ss dbname=safety sslmode=disable"; got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	if got, want := d.URL(), "postgres://u:p%40ss@db:5432/safety?sslmode=disable"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
	d.DSNOverride = "postgres://other"
	if d.DSN() != "postgres://other" {
		t.Errorf("override ignored: %q", d.DSN())
	}
}

func TestProbeDSN(t *testing.T) {
	p := ProbeConfig{Server: "mssql:1433", Database: "hs", User: "sa", Password: "pw", TrustServerCertificate: true}
	if !p.Enabled() {
		t.Fatal("expected enabled")
	}
	dsn := p.DSN()
	for _, part := range []string{"sqlserver://sa:pw@mssql:1433", "database=hs", "encrypt=false", "TrustServerCertificate=true"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN %q missing %q", dsn, part)
		}
	}
	p.ConnectionString = "sqlserver://x"
	if p.DSN() != "sqlserver://x" {
		t.Errorf("connection string should win, got %q", p.DSN())
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	LogConfig{Format: "json", Level: "warn"}.NewLogger(&buf).Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got %q", buf.String())
	}
	LogConfig{Format: "json", Level: "debug"}.NewLogger(&buf).Debug("shown", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"shown"`) {
		t.Errorf("expected json record, got %q", buf.String())
	}
}

func TestLocation(t *testing.T) {
	if (AppConfig{}).Location() != time.Local {
		t.Error("empty TZ should be local")
	}
	if loc := (AppConfig{TZName: "UTC"}).Location(); loc.String() != "UTC" {
		t.Errorf("loc = %v", loc)
	}
	if (AppConfig{TZName: "Nowhere/Invalid"}).Location() != time.Local {
		t.Error("invalid TZ should fall back to local")
	}
}
