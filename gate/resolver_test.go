package gate_test

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/go-safety/gate"
)

func TestCachedResolver_CachesGrants(t *testing.T) {
	inner := gate.NewStaticResolver[string]()
	inner.Set("u1", gate.Grant{Path: "/a"})

	cached := gate.NewCachedResolver[string](inner, 16, 5*time.Minute)

	g1, err := cached.Resolve(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(g1) != 1 || g1[0].Path != "/a" {
		t.Fatalf("unexpected grants %v", g1)
	}

	// Modify inner resolver (simulate change)
	inner.Set("u1", gate.Grant{Path: "/b"})

	g2, _ := cached.Resolve(context.Background(), "u1")
	if g2[0].Path != "/a" {
		t.Errorf("expected cached /a, got %s", g2[0].Path)
	}
}

func TestCachedResolver_Invalidate(t *testing.T) {
	inner := gate.NewStaticResolver[string]()
	inner.Set("u1", gate.Grant{Path: "/a"})
	cached := gate.NewCachedResolver[string](inner, 16, 5*time.Minute)
	_, _ = cached.Resolve(context.Background(), "u1")

	inner.Set("u1", gate.Grant{Path: "/b"})
	cached.Invalidate("u1")

	g, err := cached.Resolve(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g[0].Path != "/b" {
		t.Errorf("expected /b after invalidate, got %s", g[0].Path)
	}
}

func TestCachedResolver_InvalidateAll(t *testing.T) {
	inner := gate.NewStaticResolver[string]()
	inner.Set("u1", gate.Grant{Path: "/a"})
	inner.Set("u2", gate.Grant{Path: "/a"})
	cached := gate.NewCachedResolver[string](inner, 16, 5*time.Minute)
	_, _ = cached.Resolve(context.Background(), "u1")
	_, _ = cached.Resolve(context.Background(), "u2")

	inner.Set("u1")
	inner.Set("u2")
	cached.InvalidateAll()

	for _, u := range []string{"u1", "u2"} {
		g, _ := cached.Resolve(context.Background(), u)
		if len(g) != 0 {
			t.Errorf("expected no grants for %s after purge, got %v", u, g)
		}
	}
}
