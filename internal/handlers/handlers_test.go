package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/go-safety/auth"
	"github.com/diewo77/go-safety/internal/dbtest"
	"github.com/diewo77/go-safety/internal/policy"
	"github.com/diewo77/go-safety/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	gate      *policy.AuthGate
	users     *services.UserService
	incidents *services.IncidentService
	capas     *services.CapaService
	lookups   *services.LookupService
	admin     *auth.Identity
	user      *auth.Identity
}

func setup(t *testing.T) *fixture {
	t.Helper()
	d := dbtest.New(t)
	ag := policy.NewAuthGate(d, time.Minute)
	f := &fixture{
		db:        d,
		gate:      ag,
		users:     services.NewUserService(d, ag),
		incidents: services.NewIncidentService(d, time.UTC),
		capas:     services.NewCapaService(d),
		lookups:   services.NewLookupService(d),
	}
	f.admin = f.createUser(t, "admin", "ADMIN")
	f.user = f.createUser(t, "user", "USER")
	return f
}

func (f *fixture) createUser(t *testing.T, username, role string) *auth.Identity {
	t.Helper()
	u, err := f.users.Create(context.Background(), services.CreateUserInput{
		Username: username, Password: username, Name: username + " name", Email: username + "@example.local", Role: role,
	})
	require.NoError(t, err)
	id := services.IdentityOf(u)
	return &id
}

// newRequest builds a request with an optional JSON body and signed-in identity.
func newRequest(t *testing.T, method, target string, body any, id *auth.Identity) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if id != nil {
		req = req.WithContext(auth.WithIdentity(req.Context(), id))
	}
	return req
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func incidentBody() map[string]any {
	return map[string]any{
		"site":                "plant-a",
		"dateISO":             "2024-03-01",
		"time":                "08:30",
		"incidentArea":        "production",
		"incidentCategory":    "near-miss",
		"shift":               "morning",
		"severity":            "low",
		"personnelType":       "employee",
		"injuryArea":          "hand",
		"operationalCategory": "mechanical",
		"description":         "slipped on oil",
	}
}
