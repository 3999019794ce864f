package handlers

import (
	"net/http"

	"github.com/diewo77/go-safety/httpx"
	"github.com/diewo77/go-safety/internal/services"
)

// UserHandler serves the minimal user list used by assignee pickers.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity(w, r); !ok {
		return
	}
	users, err := h.users.ListMinimal(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	out := make([]userRef, 0, len(users))
	for _, u := range users {
		out = append(out, userRef{ID: u.ID, Username: u.Username, Name: u.Name})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": out})
}
