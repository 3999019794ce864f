package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessHandler_Check(t *testing.T) {
	f := setup(t)
	_, err := f.users.UpsertGrant(context.Background(), f.user.ID, "/dashboard/capa", nil)
	require.NoError(t, err)
	h := NewAccessHandler(f.gate)

	cases := []struct {
		name    string
		target  string
		admin   bool
		anon    bool
		status  int
		allowed bool
	}{
		{"anonymous", "/api/access/check?path=/dashboard", false, true, http.StatusUnauthorized, false},
		{"missing path", "/api/access/check", false, false, http.StatusBadRequest, false},
		{"admin", "/api/access/check?path=/admin/users", true, false, http.StatusOK, true},
		{"granted prefix", "/api/access/check?path=/dashboard/capa/new", false, false, http.StatusOK, true},
		{"not granted", "/api/access/check?path=/dashboard/admin", false, false, http.StatusOK, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			id := f.user
			if c.admin {
				id = f.admin
			}
			if c.anon {
				id = nil
			}
			rec := serve(h.Check, newRequest(t, http.MethodGet, c.target, nil, id))
			assert.Equal(t, c.status, rec.Code)
			assert.Equal(t, map[string]any{"allowed": c.allowed}, decode(t, rec))
		})
	}
}
