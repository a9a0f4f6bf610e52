package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/optiflow/site-backend/internal/pkg/httputil"
	"github.com/optiflow/site-backend/internal/pkg/logger"
)

// GetPublishedPage returns a published page by slug, with its body
// rendered against the site settings.
//
//	GET /api/content/pages/{slug}
func (h *Handlers) GetPublishedPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.store.GetPageBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if page == nil {
		httputil.NotFound(w, "page not found")
		return
	}

	page.Body = h.renderer.Render(page.Body, h.siteSettings(r))
	httputil.OK(w, page)
}

// ListPublishedPosts returns published posts, newest first.
//
//	GET /api/content/posts?limit=20&offset=0
func (h *Handlers) ListPublishedPosts(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r, 20)

	posts, total, err := h.store.ListPublishedPosts(r.Context(), limit, offset)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]any{
		"posts":  posts,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetPublishedPost returns a published post by slug, body rendered
// against the site settings.
//
//	GET /api/content/posts/{slug}
func (h *Handlers) GetPublishedPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.store.GetPostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if post == nil {
		httputil.NotFound(w, "post not found")
		return
	}

	post.Body = h.renderer.Render(post.Body, h.siteSettings(r))
	httputil.OK(w, post)
}

// GetMenu returns a navigation menu by name.
//
//	GET /api/content/menus/{name}
func (h *Handlers) GetMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.store.GetMenuByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if menu == nil {
		httputil.NotFound(w, "menu not found")
		return
	}
	httputil.OK(w, menu)
}

// ListPublishedTestimonials returns published testimonials in display
// order.
//
//	GET /api/content/testimonials
func (h *Handlers) ListPublishedTestimonials(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListTestimonials(r.Context(), true)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, items)
}

// ListPublishedResources returns published downloadable resources. File
// keys are internal; the client only learns slugs and titles, and a
// download URL is minted only through a lead submission.
//
//	GET /api/content/resources
func (h *Handlers) ListPublishedResources(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListResources(r.Context(), true)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	for _, res := range items {
		res.FileKey = ""
	}
	httputil.OK(w, items)
}

// GetSettings returns the public site settings map.
//
//	GET /api/content/settings
func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, settings)
}

// siteSettings fetches settings for template rendering. A fetch failure
// degrades to unrendered placeholders rather than failing the page.
func (h *Handlers) siteSettings(r *http.Request) map[string]string {
	settings, err := h.store.GetSettings(r.Context())
	if err != nil {
		logger.Warn("settings lookup failed", "error", err)
		return nil
	}
	return settings
}
