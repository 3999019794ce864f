// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Probe    ProbeConfig
	Auth     AuthConfig
	App      AppConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds the primary database settings.
// Driver is "postgres" or "sqlite". A non-empty DSNOverride wins over the parts.
type DatabaseConfig struct {
	Driver       string
	DSNOverride  string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	Debug        bool
}

// ProbeConfig points the connectivity probe at an optional SQL Server.
type ProbeConfig struct {
	ConnectionString       string
	Server                 string
	Database               string
	User                   string
	Password               string
	Encrypt                bool
	TrustServerCertificate bool
}

// AuthConfig holds session and access settings.
type AuthConfig struct {
	SessionSecret  string
	SessionTTL     time.Duration
	CookieName     string
	SecureCookie   bool
	LoginRateLimit int // requests per minute per IP, 0 disables
	AccessCacheTTL time.Duration
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev        bool
	Migrations string // auto | sql | off
	Seed       bool
	TZName     string
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Format string // text | json
	Level  string
}

// DSN returns the connection string for the configured driver.
// Postgres uses key=value format.
func (d DatabaseConfig) DSN() string {
	if d.DSNOverride != "" {
		return d.DSNOverride
	}
	if d.Driver == "sqlite" {
		return d.DBName
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// Enabled reports whether a dedicated SQL Server probe target is configured.
func (p ProbeConfig) Enabled() bool {
	return p.ConnectionString != "" || p.Server != ""
}

// DSN returns the sqlserver:// connection string for the probe.
func (p ProbeConfig) DSN() string {
	if p.ConnectionString != "" {
		return p.ConnectionString
	}
	q := url.Values{}
	if p.Database != "" {
		q.Set("database", p.Database)
	}
	q.Set("encrypt", strconv.FormatBool(p.Encrypt))
	q.Set("TrustServerCertificate", strconv.FormatBool(p.TrustServerCertificate))
	u := &url.URL{Scheme: "sqlserver", Host: p.Server, RawQuery: q.Encode()}
	if p.User != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	return u.String()
}

// Location resolves TZName, falling back to the process local zone.
func (a AppConfig) Location() *time.Location {
	if a.TZName == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(a.TZName)
	if err != nil {
		slog.Warn("unknown TZ_NAME, using local time", "tz", a.TZName, "error", err)
		return time.Local
	}
	return loc
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(getEnv("DB_DRIVER", "postgres")),
			DSNOverride:  os.Getenv("DATABASE_DSN"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "safety"),
			Password:     getEnv("DB_PASSWORD", "safety"),
			DBName:       getEnv("DB_NAME", "safety"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
			Debug:        getEnvBool("DB_DEBUG", false),
		},
		Probe: ProbeConfig{
			ConnectionString:       os.Getenv("MSSQL_CONNECTION_STRING"),
			Server:                 os.Getenv("MSSQL_SERVER"),
			Database:               os.Getenv("MSSQL_DATABASE"),
			User:                   os.Getenv("MSSQL_USER"),
			Password:               os.Getenv("MSSQL_PASSWORD"),
			Encrypt:                getEnvBool("MSSQL_ENCRYPT", true),
			TrustServerCertificate: getEnvBool("MSSQL_TRUST_SERVER_CERTIFICATE", false),
		},
		Auth: AuthConfig{
			SessionSecret:  os.Getenv("SESSION_SECRET"),
			SessionTTL:     getEnvDuration("SESSION_TTL", 720*time.Hour),
			CookieName:     getEnv("SESSION_COOKIE", "session"),
			SecureCookie:   getEnvBool("SESSION_SECURE_COOKIE", false),
			LoginRateLimit: getEnvInt("LOGIN_RATE_LIMIT", 10),
			AccessCacheTTL: getEnvDuration("ACCESS_CACHE_TTL", 30*time.Second),
		},
		App: AppConfig{
			Dev:        getEnvBool("DEV", false),
			Migrations: strings.ToLower(getEnv("MIGRATIONS", "auto")),
			Seed:       getEnvBool("SEED", true),
			TZName:     os.Getenv("TZ_NAME"),
		},
		Log: LogConfig{
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
	}
}

// NewLogger builds a slog logger writing to w according to the log config.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(l.Level)}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetupLogger installs the configured logger as the slog default and returns it.
func (l LogConfig) SetupLogger() *slog.Logger {
	logger := l.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration accepts a Go duration ("30s", "720h") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if i, err := strconv.Atoi(value); err == nil {
		return time.Duration(i) * time.Second
	}
	return defaultValue
}
