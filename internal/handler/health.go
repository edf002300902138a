package handler

import "net/http"

// HandleHealth handles GET /api/health. Liveness only — it answers as soon
// as the router is up, without touching the database.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
