package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/diewo77/go-safety/auth"
	"github.com/diewo77/go-safety/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandler_MinimalList(t *testing.T) {
	f := setup(t)
	h := NewUserHandler(f.users)

	rec := serve(h.List, newRequest(t, http.MethodGet, "/api/users", nil, f.user))
	require.Equal(t, http.StatusOK, rec.Code)
	items := decode(t, rec)["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "admin", first["username"])
	assert.ElementsMatch(t, []string{"id", "username", "name"}, keys(first))

	rec = serve(h.List, newRequest(t, http.MethodGet, "/api/users", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestDBHandler_Ping(t *testing.T) {
	h := NewDBHandler(pingerFunc(func(context.Context) error { return nil }))
	rec := serve(h.Ping, newRequest(t, http.MethodGet, "/api/db/ping", nil, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"ok": true}, decode(t, rec))

	h = NewDBHandler(pingerFunc(func(context.Context) error { return errors.New("login failed for user 'sa'") }))
	rec = serve(h.Ping, newRequest(t, http.MethodGet, "/api/db/ping", nil, nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]any{"ok": false, "error": "login failed for user 'sa'"}, decode(t, rec))
}

func TestRiskHandler(t *testing.T) {
	h := NewRiskHandler()
	rec := serve(h.Score, newRequest(t, http.MethodGet, "/api/risk/score?likelihood=almost-certain&result=multiple-fatalities&exposure=constant", nil, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, 180.0, body["score"])
	assert.Equal(t, "critical", body["level"])
	assert.Equal(t, "Critical: stop work, immediate action and escalation", body["recommendation"])

	rec = serve(h.Score, newRequest(t, http.MethodGet, "/api/risk/score?likelihood=likely", nil, nil))
	body = decode(t, rec)
	assert.Equal(t, 0.0, body["score"])
	assert.Equal(t, "select all factors to calculate", body["recommendation"])

	rec = serve(h.Factors, newRequest(t, http.MethodGet, "/api/risk/factors", nil, nil))
	body = decode(t, rec)
	assert.Len(t, body["likelihood"], 5)
	assert.Len(t, body["result"], 6)
	assert.Len(t, body["exposure"], 6)
	first := body["likelihood"].([]any)[0].(map[string]any)
	assert.Equal(t, "unlikely", first["key"])
}

func TestAuthHandler_LoginSessionLogout(t *testing.T) {
	f := setup(t)
	sessions := auth.NewSessions(auth.Options{Secret: "test-secret"})
	h := NewAuthHandler(services.NewAuthService(f.db), sessions)

	rec := serve(h.Login, newRequest(t, http.MethodPost, "/api/auth/login", map[string]any{"username": "admin", "password": "admin"}, nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	token := body["token"].(string)
	require.NotEmpty(t, token)
	user := body["user"].(map[string]any)
	assert.Equal(t, "ADMIN", user["role"])

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, token, cookies[0].Value)

	id, err := sessions.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID, id.ID)

	rec = serve(h.Session, newRequest(t, http.MethodGet, "/api/auth/session", nil, id))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", decode(t, rec)["user"].(map[string]any)["username"])

	rec = serve(h.Session, newRequest(t, http.MethodGet, "/api/auth/session", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(h.Logout, newRequest(t, http.MethodPost, "/api/auth/logout", nil, id))
	require.Equal(t, http.StatusOK, rec.Code)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	f := setup(t)
	h := NewAuthHandler(services.NewAuthService(f.db), auth.NewSessions(auth.Options{}))

	for _, body := range []map[string]any{
		{"username": "admin", "password": "wrong"},
		{"username": "ghost", "password": "admin"},
		{"username": "admin"},
	} {
		rec := serve(h.Login, newRequest(t, http.MethodPost, "/api/auth/login", body, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid credentials", decode(t, rec)["error"])
		assert.Empty(t, rec.Result().Cookies())
	}

	rec := serve(h.Login, newRequest(t, http.MethodPost, "/api/auth/login", "nope", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
