package handlers

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/go-safety/auth"
	"github.com/diewo77/go-safety/httpx"
	"github.com/diewo77/go-safety/internal/policy"
)

type AccessHandler struct {
	gate *policy.AuthGate
}

func NewAccessHandler(gate *policy.AuthGate) *AccessHandler {
	return &AccessHandler{gate: gate}
}

type accessResponse struct {
	Allowed bool `json:"allowed"`
}

// Check answers whether the caller may open ?path=. Failures still carry
// an allowed:false body so clients can treat any non-true answer as a denial.
func (h *AccessHandler) Check(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, accessResponse{})
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		httpx.JSON(w, http.StatusBadRequest, accessResponse{})
		return
	}
	allowed, err := h.gate.IsAllowed(r.Context(), id, path)
	if err != nil {
		slog.ErrorContext(r.Context(), "access check failed", "user", id.ID, "path", path, "error", err)
		httpx.JSON(w, http.StatusInternalServerError, map[string]any{"allowed": false, "error": err.Error()})
		return
	}
	httpx.JSON(w, http.StatusOK, accessResponse{Allowed: allowed})
}
