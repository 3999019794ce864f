package handlers

import (
	"net/http"

	"github.com/diewo77/go-safety/httpx"
	"github.com/diewo77/go-safety/internal/models"
	"github.com/diewo77/go-safety/internal/services"
)

// AdminUserHandler manages accounts and their route grants. Every method
// requires the ADMIN role.
type AdminUserHandler struct {
	users *services.UserService
}

func NewAdminUserHandler(users *services.UserService) *AdminUserHandler {
	return &AdminUserHandler{users: users}
}

type adminUserView struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Name     *string     `json:"name"`
	Email    *string     `json:"email"`
	Role     models.Role `json:"role"`
}

var userMessages = messages{
	services.ErrNotFound: "User not found",
	services.ErrConflict: "username already exists",
}

func (h *AdminUserHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := admin(w, r); !ok {
		return
	}
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	out := make([]adminUserView, 0, len(users))
	for _, u := range users {
		out = append(out, adminUserView{ID: u.ID, Username: u.Username, Name: u.Name, Email: u.Email, Role: u.Role})
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": out})
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (h *AdminUserHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := admin(w, r); !ok {
		return
	}
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	u, err := h.users.Create(r.Context(), services.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, r, err, userMessages)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Created{ID: u.ID})
}

type updateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

func (h *AdminUserHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := admin(w, r); !ok {
		return
	}
	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	err := h.users.Update(r.Context(), r.PathValue("id"), services.UpdateUserInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		writeError(w, r, err, userMessages)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.OK{OK: true})
}

func (h *AdminUserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := admin(w, r)
	if !ok {
		return
	}
	if err := h.users.Delete(r.Context(), actor.ID, r.PathValue("id")); err != nil {
		writeError(w, r, err, messages{
			services.ErrNotFound: "User not found",
			services.ErrConflict: "User still has related records",
		})
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.OK{OK: true})
}

func (h *AdminUserHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	if _, ok := admin(w, r); !ok {
		return
	}
	grants, err := h.users.Grants(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": nonNil(grants)})
}

type grantRequest struct {
	Path     string `json:"path"`
	IsPrefix *bool  `json:"isPrefix"`
}

func (h *AdminUserHandler) AddRoute(w http.ResponseWriter, r *http.Request) {
	if _, ok := admin(w, r); !ok {
		return
	}
	var req grantRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Missing path", nil)
		return
	}
	grant, err := h.users.UpsertGrant(r.Context(), r.PathValue("id"), req.Path, req.IsPrefix)
	if err != nil {
		writeError(w, r, err, userMessages)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Created{ID: grant.ID})
}

func (h *AdminUserHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	if _, ok := admin(w, r); !ok {
		return
	}
	if err := h.users.DeleteGrant(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err, messages{services.ErrNotFound: "Route grant not found"})
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.OK{OK: true})
}
