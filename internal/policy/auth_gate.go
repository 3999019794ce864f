// Package policy wires the path gate to the database and the session identity.
package policy

import (
	"context"
	"time"

	"github.com/diewo77/go-safety/auth"
	"github.com/diewo77/go-safety/gate"
	"gorm.io/gorm"
)

// cacheSize bounds the number of users whose grants are cached.
const cacheSize = 4096

// AuthGate is the access policy evaluator: admins pass, other users need a
// matching route grant.
type AuthGate struct {
	Gate *gate.Gate[string]
	// Cache is nil when grant caching is disabled.
	Cache *gate.CachedResolver[string]
}

// NewAuthGate builds a gate over the route_access table. A positive cacheTTL
// caches each user's grants for that long.
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	var resolver gate.GrantResolver[string] = NewDBGrantResolver(db)
	ag := &AuthGate{}
	if cacheTTL > 0 {
		ag.Cache = gate.NewCachedResolver(resolver, cacheSize, cacheTTL)
		resolver = ag.Cache
	}
	ag.Gate = gate.NewGate(resolver)
	return ag
}

// Authorize checks whether id may access path. A nil identity is
// gate.ErrUnauthorized and an empty path gate.ErrEmptyPath.
func (ag *AuthGate) Authorize(ctx context.Context, id *auth.Identity, path string) error {
	if id == nil {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, id.ID, id.IsAdmin(), path)
}

// IsAllowed reduces Authorize to a decision. Denials are (false, nil).
func (ag *AuthGate) IsAllowed(ctx context.Context, id *auth.Identity, path string) (bool, error) {
	if id == nil {
		return false, nil
	}
	return ag.Gate.Allowed(ctx, id.ID, id.IsAdmin(), path)
}

// Invalidate drops the cached grants of one user.
func (ag *AuthGate) Invalidate(userID string) {
	if ag.Cache != nil {
		ag.Cache.Invalidate(userID)
	}
}

// InvalidateAll empties the grant cache.
func (ag *AuthGate) InvalidateAll() {
	if ag.Cache != nil {
		ag.Cache.InvalidateAll()
	}
}
