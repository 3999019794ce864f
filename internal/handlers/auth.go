package handlers

import (
	"log/slog"
	"net/http"

	"github.com/diewo77/go-safety/auth"
	"github.com/diewo77/go-safety/httpx"
	"github.com/diewo77/go-safety/internal/services"
)

type AuthHandler struct {
	auth     *services.AuthService
	sessions *auth.Sessions
}

func NewAuthHandler(authSvc *services.AuthService, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{auth: authSvc, sessions: sessions}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  *auth.Identity `json:"user"`
	Token string         `json:"token,omitempty"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	id, err := h.auth.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	token, exp, err := h.sessions.Issue(*id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	h.sessions.SetCookie(w, token, exp)
	slog.InfoContext(r.Context(), "user signed in", "user", id.ID, "role", id.Role)
	httpx.JSON(w, http.StatusOK, sessionResponse{User: id, Token: token})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	httpx.JSON(w, http.StatusOK, httpx.OK{OK: true})
}

func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, sessionResponse{User: id})
}
