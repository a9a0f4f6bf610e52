package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/optiflow/site-backend/internal/pkg/httputil"
	"github.com/optiflow/site-backend/internal/store"
)

// ListMenus returns all navigation menus.
//
//	GET /api/admin/menus
func (h *Handlers) ListMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.store.ListMenus(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, menus)
}

type upsertMenuRequest struct {
	Items json.RawMessage `json:"items"`
}

// UpsertMenu creates or replaces a menu by name. Items must be a JSON
// array.
//
//	PUT /api/admin/menus/{name}
func (h *Handlers) UpsertMenu(w http.ResponseWriter, r *http.Request) {
	var req upsertMenuRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	raw := bytes.TrimSpace(req.Items)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		// Absent or JSON null items become the empty menu, never a
		// stored JSONB null.
		req.Items = nil
	} else {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			httputil.BadRequest(w, "items must be a JSON array")
			return
		}
	}

	menu := &store.Menu{
		Name:  chi.URLParam(r, "name"),
		Items: req.Items,
	}
	if err := h.store.UpsertMenu(r.Context(), menu); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, menu)
}

// DeleteMenu deletes a menu by name.
//
//	DELETE /api/admin/menus/{name}
func (h *Handlers) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	found, err := h.store.DeleteMenu(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !found {
		httputil.NotFound(w, "menu not found")
		return
	}
	httputil.NoContent(w)
}
