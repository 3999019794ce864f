package server

import (
	"github.com/diewo77/go-safety/auth"
	"github.com/diewo77/go-safety/internal/config"
	"github.com/diewo77/go-safety/internal/handlers"
	"github.com/diewo77/go-safety/internal/policy"
	"github.com/diewo77/go-safety/internal/services"
	"gorm.io/gorm"
)

// RouterConfig holds every handler the router mounts together with the
// session and access components they share.
type RouterConfig struct {
	Sessions       *auth.Sessions
	AuthGate       *policy.AuthGate
	LoginRateLimit int

	AuthHandler      *handlers.AuthHandler
	AccessHandler    *handlers.AccessHandler
	IncidentHandler  *handlers.IncidentHandler
	CapaHandler      *handlers.CapaHandler
	LookupHandler    *handlers.LookupHandler
	AdminUserHandler *handlers.AdminUserHandler
	UserHandler      *handlers.UserHandler
	DBHandler        *handlers.DBHandler
	RiskHandler      *handlers.RiskHandler
}

// NewRouterConfig wires services and handlers over db. probe backs
// /api/db/ping and may target a different database than db.
func NewRouterConfig(db *gorm.DB, cfg *config.Config, probe handlers.Pinger) *RouterConfig {
	sessions := auth.NewSessions(auth.Options{
		Secret:       cfg.Auth.SessionSecret,
		TTL:          cfg.Auth.SessionTTL,
		CookieName:   cfg.Auth.CookieName,
		SecureCookie: cfg.Auth.SecureCookie,
	})
	authGate := policy.NewAuthGate(db, cfg.Auth.AccessCacheTTL)

	users := services.NewUserService(db, authGate)

	return &RouterConfig{
		Sessions:       sessions,
		AuthGate:       authGate,
		LoginRateLimit: cfg.Auth.LoginRateLimit,

		AuthHandler:      handlers.NewAuthHandler(services.NewAuthService(db), sessions),
		AccessHandler:    handlers.NewAccessHandler(authGate),
		IncidentHandler:  handlers.NewIncidentHandler(services.NewIncidentService(db, cfg.App.Location())),
		CapaHandler:      handlers.NewCapaHandler(services.NewCapaService(db)),
		LookupHandler:    handlers.NewLookupHandler(services.NewLookupService(db)),
		AdminUserHandler: handlers.NewAdminUserHandler(users),
		UserHandler:      handlers.NewUserHandler(users),
		DBHandler:        handlers.NewDBHandler(probe),
		RiskHandler:      handlers.NewRiskHandler(),
	}
}
