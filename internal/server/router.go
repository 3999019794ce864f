// Package server assembles the HTTP surface: the chi router with its
// middleware stack and the http.Server around it.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/diewo77/go-safety/auth"
	"github.com/diewo77/go-safety/httpx"
	"github.com/diewo77/go-safety/internal/config"
	"github.com/diewo77/go-safety/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter mounts every route of rc.
func NewRouter(rc *RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics)
	r.Use(middleware.Recover(logger))
	r.Use(rc.Sessions.Middleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSONError(w, http.StatusNotFound, "Not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	r.Get("/health", health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		ah := rc.AuthHandler
		r.With(loginLimiter(rc.LoginRateLimit)).Post("/auth/login", ah.Login)
		r.Post("/auth/logout", ah.Logout)
		r.Get("/auth/session", ah.Session)

		// answers 401 with its own {allowed:false} body
		r.Get("/access/check", rc.AccessHandler.Check)
		r.Get("/db/ping", rc.DBHandler.Ping)

		// ─────────────────────────────────────────────────────────────────────
		// Authenticated routes
		// ─────────────────────────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)

			r.Get("/incidents", rc.IncidentHandler.List)
			r.Post("/incidents", rc.IncidentHandler.Create)
			r.Get("/capa", rc.CapaHandler.List)
			r.Post("/capa", rc.CapaHandler.Create)
			r.Get("/lookups", rc.LookupHandler.List)
			r.Get("/users", rc.UserHandler.List)
			r.Get("/risk/score", rc.RiskHandler.Score)
			r.Get("/risk/factors", rc.RiskHandler.Factors)
		})

		// ─────────────────────────────────────────────────────────────────────
		// Admin routes
		// ─────────────────────────────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)

			lh := rc.LookupHandler
			r.Post("/lookups", lh.Upsert)
			r.Delete("/lookups/{id}", lh.Delete)

			uh := rc.AdminUserHandler
			r.Get("/admin/users", uh.List)
			r.Post("/admin/users", uh.Create)
			r.Patch("/admin/users/{id}", uh.Update)
			r.Delete("/admin/users/{id}", uh.Delete)
			r.Get("/admin/users/{id}/routes", uh.ListRoutes)
			r.Post("/admin/users/{id}/routes", uh.AddRoute)
			r.Delete("/admin/user-routes/{id}", uh.DeleteRoute)
		})
	})

	return r
}

func health(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loginLimiter caps sign-in attempts per client IP per minute. A limit
// of zero or less disables it.
func loginLimiter(limit int) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			httpx.JSONError(w, http.StatusTooManyRequests, "Too many sign-in attempts, try again later", nil)
		}),
	)
}

// NewHTTPServer builds the http.Server with the configured timeouts.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
