package handler

import (
	"io"
	"net/http"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/service"
)

// TopicHandler handles the /api/topics endpoints.
//
// Topics are the one SHARED collection: every authenticated user reads and
// writes the same catalog, so these handlers never look at the caller's
// user id. The session middleware has already established that a caller
// exists; that is the whole access check.
type TopicHandler struct {
	svc *service.TopicService
}

func NewTopicHandler(svc *service.TopicService) *TopicHandler {
	return &TopicHandler{svc: svc}
}

// HandleList handles GET /api/topics.
func (h *TopicHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	topics, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, topics)
}

// HandleGet handles GET /api/topics/{id}.
func (h *TopicHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	topic, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, topic)
}

// HandleCreate handles POST /api/topics.
func (h *TopicHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
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

	topic, err := h.svc.Create(r.Context(),
		r.FormValue("subject"),
		r.FormValue("subtopic"),
		r.FormValue("explanation"),
		r.FormValue("link"),
		image, imageName,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, topic)
}

// HandleUpdate handles PUT /api/topics/{id}. Unlike the owner-scoped
// collections, an unknown topic id is a real 404.
func (h *TopicHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
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

	err := h.svc.Update(r.Context(), r.PathValue("id"),
		r.FormValue("subject"),
		r.FormValue("subtopic"),
		r.FormValue("explanation"),
		r.FormValue("link"),
		image, imageName,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK)
}

// HandleDelete handles DELETE /api/topics/{id}.
func (h *TopicHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK)
}
