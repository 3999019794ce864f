// Package gate provides a path allowlist authorization system.
// A subject is granted access to URL paths through grants that match either
// the exact path or any path starting with the grant's path. This package has
// no dependencies on domain models and can be reused across web applications.
//
// The package uses generics to allow any subject key type:
//   - Gate[string] for UUID based user ids
//   - Gate[uint] for auto-increment ids
package gate

import (
	"context"
	"strings"
)

// Grant authorizes access to a path or path prefix.
type Grant struct {
	Path     string
	IsPrefix bool
}

// Matches reports whether the grant covers path.
// Prefix grants use a raw string prefix, not path segments:
// a grant for "/x" also matches "/xyz".
func (g Grant) Matches(path string) bool {
	if g.IsPrefix {
		return strings.HasPrefix(path, g.Path)
	}
	return path == g.Path
}

// AnyMatch reports whether at least one grant covers path.
// There is no precedence among grants; a single match suffices.
func AnyMatch(grants []Grant, path string) bool {
	for _, g := range grants {
		if g.Matches(path) {
			return true
		}
	}
	return false
}

// Gate is the central path authorization checkpoint.
// U is the subject key type (must be comparable for zero-value check).
type Gate[U comparable] struct {
	resolver GrantResolver[U]
}

// NewGate creates a Gate backed by resolver.
func NewGate[U comparable](resolver GrantResolver[U]) *Gate[U] {
	return &Gate[U]{resolver: resolver}
}

// Authorize checks whether user may access path.
// Returns ErrUnauthorized for a zero-value user, ErrEmptyPath for an empty path,
// ErrForbidden when no grant matches. Admins bypass grants entirely.
func (g *Gate[U]) Authorize(ctx context.Context, user U, admin bool, path string) error {
	var zero U
	if user == zero {
		return ErrUnauthorized
	}
	if path == "" {
		return ErrEmptyPath
	}
	if admin {
		return nil
	}
	grants, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		return err
	}
	if !AnyMatch(grants, path) {
		return ErrForbidden
	}
	return nil
}

// Allowed is Authorize reduced to a decision. Only resolver failures and
// invalid input are returned as errors; a denial is (false, nil).
func (g *Gate[U]) Allowed(ctx context.Context, user U, admin bool, path string) (bool, error) {
	switch err := g.Authorize(ctx, user, admin, path); err {
	case nil:
		return true, nil
	case ErrForbidden, ErrUnauthorized:
		return false, nil
	default:
		return false, err
	}
}
