package handlers

import (
	"math"
	"net/http"
	"strings"

	"github.com/diewo77/go-safety/httpx"
	"github.com/diewo77/go-safety/internal/services"
)

type LookupHandler struct {
	lookups *services.LookupService
}

func NewLookupHandler(lookups *services.LookupService) *LookupHandler {
	return &LookupHandler{lookups: lookups}
}

// List serves three shapes: ?type=x returns that type's active items,
// ?types=a,b returns active items grouped by type, and no filter returns
// every item including inactive ones.
func (h *LookupHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := identity(w, r); !ok {
		return
	}
	q := r.URL.Query()
	if typ := q.Get("type"); typ != "" {
		items, err := h.lookups.ListByType(r.Context(), typ)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"type": typ, "items": nonNil(items)})
		return
	}
	if raw := q.Get("types"); raw != "" {
		var types []string
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
		grouped, err := h.lookups.ListByTypes(r.Context(), types)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"items": grouped})
		return
	}
	items, err := h.lookups.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": nonNil(items)})
}

type lookupRequest struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Label  string `json:"label"`
	Order  number `json:"order"`
	Active *bool  `json:"active"`
}

func (h *LookupHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	if _, ok := admin(w, r); !ok {
		return
	}
	var req lookupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		invalidJSON(w)
		return
	}
	if req.Order.Invalid {
		invalidNumber(w, "order")
		return
	}
	var order *int
	if v := req.Order.Value; v != nil {
		o := int(math.Round(*v))
		order = &o
	}
	item, err := h.lookups.Upsert(r.Context(), services.LookupInput{
		Type:   req.Type,
		Value:  req.Value,
		Label:  req.Label,
		Order:  order,
		Active: req.Active,
	})
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Created{ID: item.ID})
}

func (h *LookupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := admin(w, r); !ok {
		return
	}
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "Missing id", nil)
		return
	}
	outcome, err := h.lookups.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err, messages{services.ErrNotFound: "Lookup not found"})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"ok": true, "outcome": outcome})
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
