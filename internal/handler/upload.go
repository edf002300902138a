package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/nadia/studydesk/internal/blob"
)

// UploadHandler serves stored upload content from GET /uploads/{key}.
//
// It streams straight out of the blob store, so the same route works whether
// the bytes live on the local disk or in a MinIO bucket. Upload keys are
// unguessable (xid prefix), which is the access model here: knowing the key
// is the credential, same as any CDN-style asset URL.
type UploadHandler struct {
	blobs  blob.Store
	logger *slog.Logger
}

func NewUploadHandler(blobs blob.Store, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{blobs: blobs, logger: logger}
}

// HandleServe handles GET /uploads/{key}.
func (h *UploadHandler) HandleServe(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	content, contentType, err := h.blobs.Open(r.Context(), key)
	if err != nil {
		// Missing blob or store trouble both read as "not here" to the
		// client; the real cause goes to the log.
		h.logger.Debug("upload not served",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "file not found"})
		return
	}
	defer content.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	if _, err := io.Copy(w, content); err != nil {
		// Headers are gone; nothing to send. Usually the client hung up.
		h.logger.Debug("upload stream interrupted",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
