package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/diewo77/go-safety/auth"
	"github.com/diewo77/go-safety/internal/config"
	"github.com/diewo77/go-safety/internal/db"
	"github.com/diewo77/go-safety/internal/server"
	"gorm.io/gorm"
)

// App holds the process-wide resources shared by every command.
type App struct {
	cfg   *config.Config
	log   *slog.Logger
	db    *gorm.DB
	probe *db.Probe
}

// newApp loads the configuration and connects to the primary database.
func newApp() (*App, error) {
	cfg := config.Load()
	log := cfg.Log.SetupLogger()

	conn, err := db.Open(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &App{cfg: cfg, log: log, db: conn}, nil
}

// Close releases the database connections.
func (a *App) Close() {
	if a.probe != nil {
		if err := a.probe.Close(); err != nil {
			a.log.Warn("close probe", "error", err)
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (a *App) migrate() error {
	url := ""
	if a.cfg.App.Migrations == db.MigrateSQL {
		url = db.MigrationURL(a.cfg.Database.DSN())
	}
	return db.RunMigrations(a.db, a.cfg.App.Migrations, url, a.log)
}

func (a *App) seed() error {
	if err := db.Seed(a.db); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	a.log.Info("seed completed")
	return nil
}

// prepare migrates and optionally seeds before serving.
func (a *App) prepare() error {
	if err := a.migrate(); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if a.cfg.App.Seed {
		if err := a.seed(); err != nil {
			return err
		}
	}
	return nil
}

// Handler builds the full HTTP handler.
func (a *App) Handler() http.Handler {
	if a.probe == nil {
		a.probe = db.NewProbe(a.cfg.Probe, a.db)
	}
	a.log.Info("db ping probe configured", "target", a.probe.Target())
	if a.cfg.Auth.SessionSecret == "" {
		a.log.Warn("SESSION_SECRET is not set, using the development secret", "dev", a.cfg.App.Dev)
		a.cfg.Auth.SessionSecret = auth.DefaultSecret
	}
	rc := server.NewRouterConfig(a.db, a.cfg, a.probe)
	return server.NewRouter(rc, a.log)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.prepare(); err != nil {
		return err
	}

	srv := server.NewHTTPServer(app.cfg.Server, app.Handler())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		app.log.Info("server starting", "port", app.cfg.Server.Port, "dev", app.cfg.App.Dev)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	app.log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	app.log.Info("server stopped gracefully")
	return nil
}
