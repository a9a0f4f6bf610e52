package api

import (
	"net/http"
	"strings"

	"github.com/optiflow/site-backend/internal/pkg/httputil"
	"github.com/optiflow/site-backend/internal/store"
)

// ListTestimonials returns all testimonials, unpublished included.
//
//	GET /api/admin/testimonials
func (h *Handlers) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListTestimonials(r.Context(), false)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, items)
}

// CreateTestimonial creates a testimonial.
//
//	POST /api/admin/testimonials
func (h *Handlers) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var tm store.Testimonial
	if !httputil.Decode(w, r, &tm) {
		return
	}
	if strings.TrimSpace(tm.Author) == "" || strings.TrimSpace(tm.Quote) == "" {
		httputil.BadRequest(w, "author and quote are required")
		return
	}

	if err := h.store.CreateTestimonial(r.Context(), &tm); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, tm)
}

// GetTestimonial returns a testimonial by ID.
//
//	GET /api/admin/testimonials/{id}
func (h *Handlers) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	tm, err := h.store.GetTestimonial(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if tm == nil {
		httputil.NotFound(w, "testimonial not found")
		return
	}
	httputil.OK(w, tm)
}

// UpdateTestimonial replaces a testimonial's editable fields.
//
//	PUT /api/admin/testimonials/{id}
func (h *Handlers) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var tm store.Testimonial
	if !httputil.Decode(w, r, &tm) {
		return
	}
	tm.ID = id

	found, err := h.store.UpdateTestimonial(r.Context(), &tm)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !found {
		httputil.NotFound(w, "testimonial not found")
		return
	}
	httputil.OK(w, tm)
}

// DeleteTestimonial deletes a testimonial.
//
//	DELETE /api/admin/testimonials/{id}
func (h *Handlers) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := h.store.DeleteTestimonial(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !found {
		httputil.NotFound(w, "testimonial not found")
		return
	}
	httputil.NoContent(w)
}
