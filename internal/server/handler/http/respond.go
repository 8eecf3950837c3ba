package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Krackerr154/glabs-website/internal/models"
	"go.uber.org/zap"
)

// maxBodyBytes bounds JSON and form bodies.
const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeAPIError maps a service error onto a JSON response.
func writeAPIError(w http.ResponseWriter, log *zap.Logger, err error) {
	if verr, ok := models.AsValidationError(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, verr)
		return
	}
	if errors.Is(err, models.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
		return
	}
	log.Error("content request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "storage unavailable"})
}

type errorPage struct {
	Status  int
	Message string
}

// renderError writes an HTML error page for err.
func renderError(w http.ResponseWriter, views *Views, log *zap.Logger, admin bool, err error) {
	status, msg := http.StatusInternalServerError, "Something went wrong. Please try again later."
	if errors.Is(err, models.ErrNotFound) {
		status, msg = http.StatusNotFound, "The page you are looking for does not exist."
	} else {
		log.Error("page request failed", zap.Error(err))
	}
	render(w, views, log, status, "error.html", http.StatusText(status), admin, errorPage{Status: status, Message: msg})
}

// render writes a page and falls back to a plain 500 if the template fails.
func render(w http.ResponseWriter, views *Views, log *zap.Logger, status int, name, title string, admin bool, data any) {
	if err := views.Render(w, status, name, title, admin, data); err != nil {
		log.Error("render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func loggerOrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
