package api

import (
	"net/http"
	"strings"

	"github.com/optiflow/site-backend/internal/pkg/httputil"
	"github.com/optiflow/site-backend/internal/pkg/logger"
	"github.com/optiflow/site-backend/internal/store"
)

// ListResources returns all downloadable resources, unpublished
// included.
//
//	GET /api/admin/resources
func (h *Handlers) ListResources(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListResources(r.Context(), false)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, items)
}

// CreateResource creates a resource record. Its file is attached
// separately via the file endpoint.
//
//	POST /api/admin/resources
func (h *Handlers) CreateResource(w http.ResponseWriter, r *http.Request) {
	var res store.Resource
	if !httputil.Decode(w, r, &res) {
		return
	}
	if strings.TrimSpace(res.Slug) == "" || strings.TrimSpace(res.Title) == "" {
		httputil.BadRequest(w, "slug and title are required")
		return
	}

	if err := h.store.CreateResource(r.Context(), &res); err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, res)
}

// GetResource returns a resource by ID.
//
//	GET /api/admin/resources/{id}
func (h *Handlers) GetResource(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	res, err := h.store.GetResource(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if res == nil {
		httputil.NotFound(w, "resource not found")
		return
	}
	httputil.OK(w, res)
}

// UpdateResource replaces a resource's editable fields. The file key is
// managed through the file endpoint and is not touched here.
//
//	PUT /api/admin/resources/{id}
func (h *Handlers) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var res store.Resource
	if !httputil.Decode(w, r, &res) {
		return
	}
	res.ID = id

	found, err := h.store.UpdateResource(r.Context(), &res)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !found {
		httputil.NotFound(w, "resource not found")
		return
	}
	httputil.OK(w, res)
}

// DeleteResource deletes a resource and best-effort removes its file
// from storage.
//
//	DELETE /api/admin/resources/{id}
func (h *Handlers) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	res, err := h.store.GetResource(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if res == nil {
		httputil.NotFound(w, "resource not found")
		return
	}

	found, err := h.store.DeleteResource(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if !found {
		httputil.NotFound(w, "resource not found")
		return
	}

	if h.files != nil && res.FileKey != "" {
		if err := h.files.Delete(r.Context(), res.FileKey); err != nil {
			logger.Warn("orphaned resource file", "file_key", res.FileKey, "error", err)
		}
	}
	httputil.NoContent(w)
}

// UploadResourceFile attaches a file to a resource. Multipart form with
// a single "file" part.
//
//	POST /api/admin/resources/{id}/file
func (h *Handlers) UploadResourceFile(w http.ResponseWriter, r *http.Request) {
	if h.files == nil {
		httputil.Error(w, http.StatusServiceUnavailable, "file storage is not configured")
		return
	}

	id, ok := parseID(w, r)
	if !ok {
		return
	}

	res, err := h.store.GetResource(r.Context(), id)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	if res == nil {
		httputil.NotFound(w, "resource not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.BadRequest(w, "file part is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	fileKey, err := h.files.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}

	oldKey := res.FileKey
	if _, err := h.store.SetResourceFileKey(r.Context(), id, fileKey); err != nil {
		httputil.InternalError(w, err)
		return
	}

	if oldKey != "" && oldKey != fileKey {
		if err := h.files.Delete(r.Context(), oldKey); err != nil {
			logger.Warn("orphaned resource file", "file_key", oldKey, "error", err)
		}
	}

	logger.Info("resource file uploaded", "resource_id", id.String(), "file_key", fileKey,
		"size_bytes", header.Size)
	httputil.OK(w, map[string]string{"file_key": fileKey})
}
