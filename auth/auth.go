// Package auth issues and verifies session tokens and carries the
// authenticated identity through the request context.
//
// Sessions are stateless: the signed token holds the subject id, role and
// username, and request-time decisions read those claims without touching
// the credential store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/go-safety/httpx"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const identityCtxKey = ctxKey("identity")

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// DefaultSecret is used when SESSION_SECRET is not configured. Development only.
const DefaultSecret = "devsessionsecret"

var (
	ErrNoToken      = errors.New("no session token")
	ErrInvalidToken = errors.New("invalid session token")
)

// Identity is the authenticated principal reconstituted from session claims.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Image    string `json:"image,omitempty"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the identity carries the ADMIN role.
func (i *Identity) IsAdmin() bool { return i != nil && i.Role == RoleAdmin }

type sessionClaims struct {
	jwt.RegisteredClaims
	Role     string `json:"role"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Image    string `json:"picture,omitempty"`
}

// Options configures a Sessions instance.
type Options struct {
	Secret       string
	TTL          time.Duration
	Issuer       string
	CookieName   string
	SecureCookie bool
}

// Sessions signs and parses HS256 session tokens and manages the session cookie.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	issuer string
	cookie string
	secure bool
	now    func() time.Time
}

// NewSessions builds a Sessions from opts, filling defaults for empty fields.
func NewSessions(opts Options) *Sessions {
	s := &Sessions{
		secret: []byte(opts.Secret),
		ttl:    opts.TTL,
		issuer: opts.Issuer,
		cookie: opts.CookieName,
		secure: opts.SecureCookie,
		now:    time.Now,
	}
	if len(s.secret) == 0 {
		s.secret = []byte(DefaultSecret)
	}
	if s.ttl <= 0 {
		s.ttl = 30 * 24 * time.Hour
	}
	if s.issuer == "" {
		s.issuer = "go-safety"
	}
	if s.cookie == "" {
		s.cookie = "session"
	}
	return s
}

// Issue signs a token embedding the identity's id, role and username.
func (s *Sessions) Issue(id Identity) (string, time.Time, error) {
	if id.ID == "" {
		return "", time.Time{}, errors.New("identity without subject")
	}
	now := s.now()
	exp := now.Add(s.ttl)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role:     id.Role,
		Username: id.Username,
		Name:     id.Name,
		Email:    id.Email,
		Image:    id.Image,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, exp, nil
}

// Parse validates a token and returns the identity it carries.
func (s *Sessions) Parse(token string) (*Identity, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &Identity{
		ID:       claims.Subject,
		Username: claims.Username,
		Name:     claims.Name,
		Email:    claims.Email,
		Image:    claims.Image,
		Role:     claims.Role,
	}, nil
}

// SetCookie stores the token in an HttpOnly session cookie.
func (s *Sessions) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

// ClearCookie deletes the session cookie.
func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: s.cookie, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, Secure: s.secure, SameSite: http.SameSiteLaxMode})
}

// TokenFromRequest returns the bearer token if present, else the cookie value.
func (s *Sessions) TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if c, err := r.Cookie(s.cookie); err == nil {
		return c.Value
	}
	return ""
}

// Middleware attaches the session identity to the request context when the
// token is valid. Invalid or missing tokens leave the request anonymous.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := s.Parse(s.TokenFromRequest(r)); err == nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// WithIdentity stores the identity in ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityCtxKey, id)
}

// IdentityFromContext extracts the identity stored by Middleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityCtxKey).(*Identity)
	if !ok || id == nil {
		return nil, false
	}
	return id, true
}

// RequireAuth rejects anonymous requests with 401 JSON.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects anonymous requests with 401 and non-admins with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "Unauthorized", nil)
			return
		}
		if !id.IsAdmin() {
			httpx.JSONError(w, http.StatusForbidden, "Forbidden", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
