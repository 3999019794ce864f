package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/diewo77/go-safety/httpx"
)

// Pinger checks connectivity of a database.
type Pinger interface {
	Ping(ctx context.Context) error
}

type DBHandler struct {
	probe   Pinger
	timeout time.Duration
}

func NewDBHandler(probe Pinger) *DBHandler {
	return &DBHandler{probe: probe, timeout: 5 * time.Second}
}

type pingResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (h *DBHandler) Ping(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	if err := h.probe.Ping(ctx); err != nil {
		slog.WarnContext(r.Context(), "db ping failed", "error", err)
		httpx.JSON(w, http.StatusInternalServerError, pingResponse{Error: err.Error()})
		return
	}
	httpx.JSON(w, http.StatusOK, pingResponse{OK: true})
}
