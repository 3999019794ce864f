package models

import (
	"testing"
	"time"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want Role
	}{
		{"ADMIN", RoleAdmin},
		{"admin", RoleAdmin},
		{" Admin ", RoleAdmin},
		{"USER", RoleUser},
		{"superuser", RoleUser},
		{"", RoleUser},
	}
	for _, tt := range tests {
		if got := ParseRole(tt.in); got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUser_DisplayName(t *testing.T) {
	name := "Admin"
	empty := ""
	tests := []struct {
		name string
		user User
		want string
	}{
		{"name set", User{Username: "admin", Name: &name}, "Admin"},
		{"name empty", User{Username: "admin", Name: &empty}, "admin"},
		{"name nil", User{Username: "admin"}, "admin"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRouteAccess_Grant(t *testing.T) {
	g := RouteAccess{Path: "/dashboard", IsPrefix: true}.Grant()
	if g.Path != "/dashboard" || !g.IsPrefix {
		t.Errorf("unexpected grant %+v", g)
	}
}

func TestIncident_NewCapa(t *testing.T) {
	at := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	inc := &Incident{
		ID: "inc-1", Site: "plant-a", OccurredAt: at, IncidentArea: "production",
		IncidentCategory: "near-miss", Shift: "morning", Severity: "low",
		PersonnelType: "empleado", InjuryArea: "hand", OperationalCategory: "mechanical",
	}
	c := inc.NewCapa()
	if c.IncidentID != "inc-1" || c.Site != "plant-a" || !c.OccurredAt.Equal(at) ||
		c.IncidentArea != "production" || c.IncidentCategory != "near-miss" || c.Shift != "morning" ||
		c.Severity != "low" || c.PersonnelType != "empleado" || c.OperationalCategory != "mechanical" {
		t.Errorf("snapshot mismatch: %+v", c)
	}
}
