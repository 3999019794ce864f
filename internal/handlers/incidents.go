package handlers

import (
	"net/http"
	"strings"

	"github.com/diewo77/go-safety/httpx"
	"github.com/diewo77/go-safety/internal/models"
	"github.com/diewo77/go-safety/internal/services"
)

type IncidentHandler struct {
	incidents *services.IncidentService
}

func NewIncidentHandler(incidents *services.IncidentService) *IncidentHandler {
	return &IncidentHandler{incidents: incidents}
}

type reporterView struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
}

type incidentView struct {
	models.Incident
	Reporter *reporterView `json:"reporter"`
}

func newIncidentView(inc models.Incident) incidentView {
	v := incidentView{Incident: inc}
	if u := inc.Reporter; u != nil {
		v.Reporter = &reporterView{ID: u.ID, Username: u.Username, Name: u.Name, Email: u.Email}
	}
	return v
}

func (h *IncidentHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity(w, r); !ok {
		return
	}
	limit := parseLimit(r.URL.Query().Get("limit"), services.DefaultListLimit)
	items, err := h.incidents.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	out := make([]incidentView, 0, len(items))
	for _, inc := range items {
		out = append(out, newIncidentView(inc))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": out})
}

type incidentRequest struct {
	Site                string `json:"site"`
	DateISO             string `json:"dateISO"`
	Time                string `json:"time"`
	IncidentArea        string `json:"incidentArea"`
	IncidentCategory    string `json:"incidentCategory"`
	Shift               string `json:"shift"`
	Severity            string `json:"severity"`
	PersonnelType       string `json:"personnelType"`
	InjuryArea          string `json:"injuryArea"`
	OperationalCategory string `json:"operationalCategory"`
	Description         string `json:"description"`
	RiskScore           number `json:"riskScore"`
	Likelihood          string `json:"likelihood"`
	Result              string `json:"result"`
	Exposure            string `json:"exposure"`

	// Field names sent by the report form. The English keys win when both are set.
	Severidad          string `json:"severidad"`
	TipoPersonal       string `json:"tipoPersonal"`
	CategoriaOperativa string `json:"categoriaOperativa"`
}

func orAlias(value, alias string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return alias
}

func (h *IncidentHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := identity(w, r)
	if !ok {
		return
	}
	var req incidentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	if req.RiskScore.Invalid {
		invalidNumber(w, "riskScore")
		return
	}
	inc, err := h.incidents.Create(r.Context(), id.ID, services.IncidentInput{
		Site:                req.Site,
		Date:                req.DateISO,
		Time:                req.Time,
		IncidentArea:        req.IncidentArea,
		IncidentCategory:    req.IncidentCategory,
		Shift:               req.Shift,
		Severity:            orAlias(req.Severity, req.Severidad),
		PersonnelType:       orAlias(req.PersonnelType, req.TipoPersonal),
		InjuryArea:          req.InjuryArea,
		OperationalCategory: orAlias(req.OperationalCategory, req.CategoriaOperativa),
		Description:         req.Description,
		RiskScore:           req.RiskScore.Value,
		Likelihood:          req.Likelihood,
		Result:              req.Result,
		Exposure:            req.Exposure,
	})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Created{ID: inc.ID})
}
