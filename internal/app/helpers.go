package app

import (
	"encoding/json"
	"net/http"

	"github.com/antenmanuuel/p4sbu-sbu11-sub004/internal/middleware"
)

func (app *Application) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		app.Logger.Error("Failed to encode response", "error", err, "path", r.URL.Path)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.writeJSON(w, r, status, map[string]string{"error": message})
}

func (app *Application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.Logger.Info("Rejected request", "path", r.URL.Path, "error", err, "request_id", middleware.RequestIDFromContext(r.Context()))
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}
