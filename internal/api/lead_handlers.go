package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/optiflow/site-backend/internal/leads"
	"github.com/optiflow/site-backend/internal/pkg/httputil"
)

// SubmitContact handles a contact-form submission. Success means the
// lead is persisted; webhook delivery is asynchronous and never affects
// the response.
//
//	POST /api/leads/contact
func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var sub leads.ContactSubmission
	if !httputil.Decode(w, r, &sub) {
		return
	}

	result, err := h.leads.SubmitContact(r.Context(), sub)
	if err != nil {
		h.writeLeadError(w, err)
		return
	}
	httputil.Created(w, result)
}

// SubmitResourceRequest handles a resource-download submission. The
// response carries the short-lived download URL once the lead is
// committed.
//
//	POST /api/leads/resource
func (h *Handlers) SubmitResourceRequest(w http.ResponseWriter, r *http.Request) {
	var sub leads.ResourceSubmission
	if !httputil.Decode(w, r, &sub) {
		return
	}

	result, err := h.leads.SubmitResourceRequest(r.Context(), sub)
	if err != nil {
		h.writeLeadError(w, err)
		return
	}
	httputil.Created(w, result)
}

func (h *Handlers) writeLeadError(w http.ResponseWriter, err error) {
	var vErr *leads.ValidationError
	switch {
	case errors.As(err, &vErr):
		httputil.BadRequest(w, vErr.Error())
	case errors.Is(err, leads.ErrResourceNotFound):
		httputil.NotFound(w, "resource not found")
	default:
		httputil.InternalError(w, err)
	}
}

// ListLeads returns captured leads, newest first.
//
//	GET /api/admin/leads?limit=50&offset=0
func (h *Handlers) ListLeads(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r, 50)

	items, total, err := h.store.ListLeads(r.Context(), limit, offset)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{
		"leads":  items,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetLead returns a single lead by ID.
//
//	GET /api/admin/leads/{id}
func (h *Handlers) GetLead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.BadRequest(w, "invalid lead id")
		return
	}

	lead, err := h.store.GetLead(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if lead == nil {
		httputil.NotFound(w, "lead not found")
		return
	}
	httputil.OK(w, lead)
}

// pageParams parses limit/offset query parameters with sane bounds.
func pageParams(r *http.Request, defaultLimit int) (limit, offset int) {
	limit = defaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
