package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/optiflow/site-backend/internal/pkg/httputil"
)

// GetAllSettings returns the full settings map for the admin editor.
//
//	GET /api/admin/settings
func (h *Handlers) GetAllSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, settings)
}

// UpdateSettings upserts the submitted key/value pairs. Keys not in the
// request are left untouched.
//
//	PUT /api/admin/settings
func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings map[string]string
	if !httputil.Decode(w, r, &settings) {
		return
	}
	if len(settings) == 0 {
		httputil.BadRequest(w, "no settings provided")
		return
	}

	if err := h.store.SetSettings(r.Context(), settings); err != nil {
		httputil.InternalError(w, err)
		return
	}

	updated, err := h.store.GetSettings(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, updated)
}

// DeleteSetting removes a single settings key.
//
//	DELETE /api/admin/settings/{key}
func (h *Handlers) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	found, err := h.store.DeleteSetting(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !found {
		httputil.NotFound(w, "setting not found")
		return
	}
	httputil.NoContent(w)
}
