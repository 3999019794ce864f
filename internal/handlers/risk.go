package handlers

import (
	"net/http"

	"github.com/diewo77/go-safety/httpx"
	"github.com/diewo77/go-safety/internal/risk"
)

// RiskHandler exposes the risk calculator. It holds no state.
type RiskHandler struct{}

func NewRiskHandler() *RiskHandler { return &RiskHandler{} }

func (h *RiskHandler) Score(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	httpx.JSON(w, http.StatusOK, risk.Assess(q.Get("likelihood"), q.Get("result"), q.Get("exposure")))
}

func (h *RiskHandler) Factors(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"likelihood": risk.Likelihood,
		"result":     risk.Result,
		"exposure":   risk.Exposure,
		"maxScore":   risk.MaxScore,
	})
}
