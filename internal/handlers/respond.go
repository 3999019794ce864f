package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/diewo77/go-safety/auth"
	"github.com/diewo77/go-safety/httpx"
	"github.com/diewo77/go-safety/internal/services"
	"github.com/diewo77/go-safety/validation"
)

// messages overrides the default error text for a sentinel, per endpoint.
type messages map[error]string

var defaultMessages = messages{
	services.ErrNotFound:           "Not found",
	services.ErrConflict:           "Conflict",
	services.ErrSelfDelete:         "You cannot delete your own account while signed in",
	services.ErrInvalidDate:        "Invalid occurrence date/time",
	services.ErrInvalidCredentials: "invalid credentials",
}

func (m messages) text(target error) string {
	if msg, ok := m[target]; ok {
		return msg
	}
	return defaultMessages[target]
}

// writeError converts a service error into its JSON response. Unexpected
// errors are logged and passed through as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, msgs messages) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		var details any
		if !verr.Violations.Empty() {
			details = verr.Violations
		}
		httpx.JSONError(w, http.StatusBadRequest, verr.Message, details)
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, msgs.text(services.ErrNotFound), nil)
	case errors.Is(err, services.ErrConflict):
		httpx.JSONError(w, http.StatusConflict, msgs.text(services.ErrConflict), nil)
	case errors.Is(err, services.ErrSelfDelete):
		httpx.JSONError(w, http.StatusBadRequest, msgs.text(services.ErrSelfDelete), nil)
	case errors.Is(err, services.ErrInvalidDate):
		httpx.JSONError(w, http.StatusBadRequest, msgs.text(services.ErrInvalidDate), nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		httpx.JSONError(w, http.StatusUnauthorized, msgs.text(services.ErrInvalidCredentials), nil)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		httpx.JSONError(w, http.StatusInternalServerError, err.Error(), nil)
	}
}

func invalidJSON(w http.ResponseWriter) {
	httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON", nil)
}

// identity returns the signed-in identity or writes a 401.
func identity(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.JSONError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return nil, false
	}
	return id, true
}

// admin returns the signed-in identity if it is an admin, otherwise writes 401 or 403.
func admin(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	id, ok := identity(w, r)
	if !ok {
		return nil, false
	}
	if !id.IsAdmin() {
		httpx.JSONError(w, http.StatusForbidden, "Forbidden", nil)
		return nil, false
	}
	return id, true
}

// parseLimit accepts a positive finite number and falls back to def otherwise.
func parseLimit(raw string, def int) int {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return def
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if l := int(n); l > 0 {
		return l
	}
	return def
}

// number decodes a JSON number or numeric string. Null and "" leave it
// unset; anything else marks it Invalid rather than failing the whole body.
type number struct {
	Value   *float64
	Invalid bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	n.Value, n.Invalid = nil, false
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case nil:
	case float64:
		n.Value = &v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			n.Invalid = true
			return nil
		}
		n.Value = &f
	default:
		n.Invalid = true
	}
	return nil
}

// invalidNumber writes the 400 for a field that is not a number.
func invalidNumber(w http.ResponseWriter, field string) {
	httpx.JSONError(w, http.StatusBadRequest, "Invalid fields", validation.Violations{field: "invalid"})
}
