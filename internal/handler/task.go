package handler

import (
	"encoding/json"
	"net/http"

	"github.com/nadia/studydesk/internal/apperror"
	"github.com/nadia/studydesk/internal/auth"
	"github.com/nadia/studydesk/internal/service"
)

// TaskHandler handles the /api/tasks endpoints.
type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// taskRequest is the JSON body for task create and update.
//
// Completed is a *bool so an update can distinguish "not mentioned" (nil,
// leave unchanged) from an explicit false.
type taskRequest struct {
	Title     string `json:"title"`
	Category  string `json:"category"`
	Completed *bool  `json:"completed"`
}

// HandleList handles GET /api/tasks.
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	tasks, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tasks)
}

// HandleGet handles GET /api/tasks/{id}.
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	task, err := h.svc.Get(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// HandleCreate handles POST /api/tasks.
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	task, err := h.svc.Create(r.Context(), userID, req.Title, req.Category)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// HandleUpdate handles PUT /api/tasks/{id}. An id the caller doesn't own
// comes back as plain success — the ownership filter makes other users'
// rows indistinguishable from nonexistent ones.
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("authentication required"))
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	if err := h.svc.Update(r.Context(), r.PathValue("id"), userID, req.Title, req.Category, req.Completed); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK)
}

// HandleDelete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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
