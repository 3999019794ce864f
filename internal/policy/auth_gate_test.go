package policy

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/go-safety/auth"
	"github.com/diewo77/go-safety/gate"
	"github.com/diewo77/go-safety/internal/dbtest"
	"github.com/diewo77/go-safety/internal/models"
	"github.com/diewo77/go-safety/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, d *gorm.DB, username string, role models.Role) *auth.Identity {
	t.Helper()
	u := models.User{Username: username, Role: role}
	require.NoError(t, d.Create(&u).Error)
	id := services.IdentityOf(&u)
	return &id
}

func grant(t *testing.T, d *gorm.DB, userID, path string, prefix bool) {
	t.Helper()
	require.NoError(t, d.Create(&models.RouteAccess{UserID: userID, Path: path, IsPrefix: prefix}).Error)
}

func TestAuthGate_Decisions(t *testing.T) {
	ctx := context.Background()
	d := dbtest.New(t)
	ag := NewAuthGate(d, 0)
	require.Nil(t, ag.Cache)

	admin := createUser(t, d, "admin", models.RoleAdmin)
	prefixUser := createUser(t, d, "prefix", models.RoleUser)
	exactUser := createUser(t, d, "exact", models.RoleUser)
	nobody := createUser(t, d, "nobody", models.RoleUser)
	grant(t, d, prefixUser.ID, "/x", true)
	grant(t, d, exactUser.ID, "/x", false)
	grant(t, d, exactUser.ID, "/reports", true)

	tests := []struct {
		name string
		id   *auth.Identity
		path string
		want bool
	}{
		{"admin any path", admin, "/anything/at/all", true},
		{"no grants", nobody, "/x", false},
		{"prefix exact", prefixUser, "/x", true},
		{"prefix nested", prefixUser, "/x/y", true},
		{"prefix raw string", prefixUser, "/xyz", true},
		{"prefix other", prefixUser, "/y", false},
		{"exact match", exactUser, "/x", true},
		{"exact rejects nested", exactUser, "/x/y", false},
		{"second grant suffices", exactUser, "/reports/2024", true},
		{"unauthenticated", nil, "/x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ag.IsAllowed(ctx, tt.id, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthGate_Errors(t *testing.T) {
	ctx := context.Background()
	d := dbtest.New(t)
	ag := NewAuthGate(d, 0)
	user := createUser(t, d, "user", models.RoleUser)

	_, err := ag.IsAllowed(ctx, user, "")
	assert.ErrorIs(t, err, gate.ErrEmptyPath)
	assert.ErrorIs(t, ag.Authorize(ctx, nil, "/x"), gate.ErrUnauthorized)
	assert.ErrorIs(t, ag.Authorize(ctx, user, "/x"), gate.ErrForbidden)
}

func TestAuthGate_CacheInvalidatedOnGrantChange(t *testing.T) {
	ctx := context.Background()
	d := dbtest.New(t)
	ag := NewAuthGate(d, time.Minute)
	require.NotNil(t, ag.Cache)
	users := services.NewUserService(d, ag)
	user := createUser(t, d, "worker", models.RoleUser)

	allowed, err := ag.IsAllowed(ctx, user, "/capa")
	require.NoError(t, err)
	assert.False(t, allowed)

	// a grant written behind the service's back stays invisible until the cache expires
	grant(t, d, user.ID, "/capa", true)
	allowed, _ = ag.IsAllowed(ctx, user, "/capa")
	assert.False(t, allowed)

	// going through the service invalidates the cached grants
	_, err = users.UpsertGrant(ctx, user.ID, "/incidents", nil)
	require.NoError(t, err)
	allowed, _ = ag.IsAllowed(ctx, user, "/capa")
	assert.True(t, allowed)

	ag.InvalidateAll()
	allowed, _ = ag.IsAllowed(ctx, user, "/incidents/new")
	assert.True(t, allowed)
}
