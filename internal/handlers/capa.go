package handlers

import (
	"net/http"

	"github.com/diewo77/go-safety/httpx"
	"github.com/diewo77/go-safety/internal/models"
	"github.com/diewo77/go-safety/internal/services"
)

type CapaHandler struct {
	capas *services.CapaService
}

func NewCapaHandler(capas *services.CapaService) *CapaHandler {
	return &CapaHandler{capas: capas}
}

type userRef struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Name     *string `json:"name"`
}

type capaView struct {
	models.Capa
	Incident   *models.Incident `json:"incident"`
	AssignedTo *userRef         `json:"assignedTo"`
}

func newCapaView(c models.Capa) capaView {
	v := capaView{Capa: c, Incident: c.Incident}
	if u := c.AssignedTo; u != nil {
		v.AssignedTo = &userRef{ID: u.ID, Username: u.Username, Name: u.Name}
	}
	return v
}

func (h *CapaHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity(w, r); !ok {
		return
	}
	limit := parseLimit(r.URL.Query().Get("limit"), services.DefaultListLimit)
	items, err := h.capas.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	out := make([]capaView, 0, len(items))
	for _, c := range items {
		out = append(out, newCapaView(c))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": out})
}

type capaRequest struct {
	IncidentID   string `json:"incidentId"`
	Description  string `json:"description"`
	ActionTaken  string `json:"actionTaken"`
	AssignedToID string `json:"assignedToId"`
	CostAmount   number `json:"costAmount"`
	CostCurrency string `json:"costCurrency"`
}

func (h *CapaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity(w, r); !ok {
		return
	}
	var req capaRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	if req.CostAmount.Invalid {
		invalidNumber(w, "costAmount")
		return
	}
	capa, err := h.capas.Create(r.Context(), services.CapaInput{
		IncidentID:   req.IncidentID,
		Description:  req.Description,
		ActionTaken:  req.ActionTaken,
		AssignedToID: req.AssignedToID,
		CostAmount:   req.CostAmount.Value,
		CostCurrency: req.CostCurrency,
	})
	if err != nil {
		writeError(w, r, err, messages{services.ErrNotFound: "Incident not found"})
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Created{ID: capa.ID})
}
