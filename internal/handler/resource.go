package handler

import (
	"io"
	"net/http"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/auth"
	"github.com/nadia/studydesk/internal/service"
)

// ResourceHandler handles the /api/resources endpoints. Resources arrive as
// multipart forms because create and update can carry a preview image.
type ResourceHandler struct {
	svc *service.ResourceService
}

func NewResourceHandler(svc *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{svc: svc}
}

// HandleList handles GET /api/resources.
func (h *ResourceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	resources, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resources)
}

// HandleGet handles GET /api/resources/{id}.
func (h *ResourceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	resource, err := h.svc.Get(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resource)
}

// HandleCreate handles POST /api/resources.
func (h *ResourceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, apperror.ValidationFailed("form", "invalid multipart form"))
		return
	}

	var (
		image     io.Reader
		imageName string
	)
	if img, name, ok := formFile(r, "image"); ok {
		defer img.Close()
		image = img
		imageName = name
	}

	resource, err := h.svc.Create(r.Context(), userID, r.FormValue("title"), r.FormValue("link"), image, imageName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resource)
}

// HandleUpdate handles PUT /api/resources/{id}. Absent fields keep their
// stored values; a new image replaces the old one.
func (h *ResourceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, apperror.ValidationFailed("form", "invalid multipart form"))
		return
	}

	var (
		image     io.Reader
		imageName string
	)
	if img, name, ok := formFile(r, "image"); ok {
		defer img.Close()
		image = img
		imageName = name
	}

	if err := h.svc.Update(r.Context(), r.PathValue("id"), userID, r.FormValue("title"), r.FormValue("link"), image, imageName); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK)
}

// HandleDelete handles DELETE /api/resources/{id}.
func (h *ResourceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	if err := h.svc.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK)
}
