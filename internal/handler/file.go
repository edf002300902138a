package handler

import (
	"net/http"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/auth"
	"github.com/nadia/studydesk/internal/service"
)

// FileHandler handles the /api/files endpoints. Files are immutable once
// uploaded, so there is no update route.
type FileHandler struct {
	svc *service.FileService
}

func NewFileHandler(svc *service.FileService) *FileHandler {
	return &FileHandler{svc: svc}
}

// HandleList handles GET /api/files.
func (h *FileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	files, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, files)
}

// HandleGet handles GET /api/files/{id}: the file's metadata record, not
// its bytes. The bytes are served from /uploads/{path}.
func (h *FileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	file, err := h.svc.Get(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, file)
}

// HandleCreate handles POST /api/files: a multipart upload with a "file"
// part and a "category" field. The response includes the stored path so the
// frontend can link to the bytes immediately.
func (h *FileHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, apperror.ValidationFailed("form", "invalid multipart form"))
		return
	}

	upload, filename, ok := formFile(r, "file")
	if !ok {
		writeError(w, apperror.ValidationFailed("file", "a file upload is required"))
		return
	}
	defer upload.Close()

	file, err := h.svc.Create(r.Context(), userID, r.FormValue("category"), upload, filename)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, file)
}

// HandleDelete handles DELETE /api/files/{id}. The record is removed
// immediately; the stored bytes are reclaimed in the background.
func (h *FileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
