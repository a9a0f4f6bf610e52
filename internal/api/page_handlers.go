package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/optiflow/site-backend/internal/pkg/httputil"
	"github.com/optiflow/site-backend/internal/store"
)

// ListPages returns all pages, drafts included.
//
//	GET /api/admin/pages
func (h *Handlers) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.store.ListPages(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, pages)
}

// CreatePage creates a page.
//
//	POST /api/admin/pages
func (h *Handlers) CreatePage(w http.ResponseWriter, r *http.Request) {
	var page store.Page
	if !httputil.Decode(w, r, &page) {
		return
	}
	if strings.TrimSpace(page.Slug) == "" || strings.TrimSpace(page.Title) == "" {
		httputil.BadRequest(w, "slug and title are required")
		return
	}

	if err := h.store.CreatePage(r.Context(), &page); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, page)
}

// GetPage returns a page by ID, drafts included.
//
//	GET /api/admin/pages/{id}
func (h *Handlers) GetPage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	page, err := h.store.GetPage(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if page == nil {
		httputil.NotFound(w, "page not found")
		return
	}
	httputil.OK(w, page)
}

// UpdatePage replaces a page's editable fields.
//
//	PUT /api/admin/pages/{id}
func (h *Handlers) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var page store.Page
	if !httputil.Decode(w, r, &page) {
		return
	}
	page.ID = id

	found, err := h.store.UpdatePage(r.Context(), &page)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !found {
		httputil.NotFound(w, "page not found")
		return
	}
	httputil.OK(w, page)
}

// DeletePage deletes a page.
//
//	DELETE /api/admin/pages/{id}
func (h *Handlers) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := h.store.DeletePage(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !found {
		httputil.NotFound(w, "page not found")
		return
	}
	httputil.NoContent(w)
}

// parseID reads the {id} URL parameter as a UUID, writing a 400 on
// failure.
func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.BadRequest(w, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
