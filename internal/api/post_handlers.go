package api

import (
	"net/http"
	"strings"

	"github.com/optiflow/site-backend/internal/pkg/httputil"
	"github.com/optiflow/site-backend/internal/pkg/logger"
	"github.com/optiflow/site-backend/internal/store"
)

// ListPosts returns all blog posts, drafts included.
//
//	GET /api/admin/posts
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, posts)
}

// CreatePost creates a blog post.
//
//	POST /api/admin/posts
func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var post store.Post
	if !httputil.Decode(w, r, &post) {
		return
	}
	if strings.TrimSpace(post.Slug) == "" || strings.TrimSpace(post.Title) == "" {
		httputil.BadRequest(w, "slug and title are required")
		return
	}

	if err := h.store.CreatePost(r.Context(), &post); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, post)
}

// GetPost returns a post by ID, drafts included.
//
//	GET /api/admin/posts/{id}
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	post, err := h.store.GetPost(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if post == nil {
		httputil.NotFound(w, "post not found")
		return
	}
	httputil.OK(w, post)
}

// UpdatePost replaces a post's editable fields.
//
//	PUT /api/admin/posts/{id}
func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var post store.Post
	if !httputil.Decode(w, r, &post) {
		return
	}
	post.ID = id

	found, err := h.store.UpdatePost(r.Context(), &post)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !found {
		httputil.NotFound(w, "post not found")
		return
	}
	httputil.OK(w, post)
}

// DeletePost deletes a post.
//
//	DELETE /api/admin/posts/{id}
func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, err := h.store.DeletePost(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !found {
		httputil.NotFound(w, "post not found")
		return
	}
	httputil.NoContent(w)
}

type importRSSRequest struct {
	FeedURL string `json:"feed_url"`
}

// ImportRSS pulls posts from an external RSS/Atom feed into the blog as
// drafts. Existing slugs are skipped, so re-importing a feed is safe.
//
//	POST /api/admin/posts/import-rss
func (h *Handlers) ImportRSS(w http.ResponseWriter, r *http.Request) {
	var req importRSSRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.FeedURL) == "" {
		httputil.BadRequest(w, "feed_url is required")
		return
	}

	result, err := h.importer.ImportFeed(r.Context(), req.FeedURL)
	if err != nil {
		logger.Error("rss import failed", "feed_url", req.FeedURL, "error", err)
		httputil.Error(w, http.StatusBadGateway, "feed could not be fetched or parsed")
		return
	}
	httputil.OK(w, result)
}
