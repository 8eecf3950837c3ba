package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Krackerr154/glabs-website/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// APIHandler serves the JSON content API. Every route sits behind the API
// guard, which answers 401 instead of redirecting.
type APIHandler struct {
	Content ContentService
	Log     *zap.Logger
}

// List handles GET /api/{kind}?published=&tag=.
func (h *APIHandler) List(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerOrNop(h.Log)
		filter := models.ListFilter{Tag: r.URL.Query().Get("tag")}
		if raw := r.URL.Query().Get("published"); raw != "" {
			published, err := strconv.ParseBool(raw)
			if err != nil {
				writeAPIError(w, log, models.NewValidationError("published", "must be true or false"))
				return
			}
			filter.Published = &published
		}

		records, err := h.Content.List(r.Context(), kind, filter)
		if err != nil {
			writeAPIError(w, log, err)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

// Get handles GET /api/{kind}/{id}; the id may also be a slug.
func (h *APIHandler) Get(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := h.Content.Get(r.Context(), kind, chi.URLParam(r, "id"))
		if err != nil {
			writeAPIError(w, loggerOrNop(h.Log), err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// Create handles POST /api/{kind}.
func (h *APIHandler) Create(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeInput(w, r)
		if !ok {
			return
		}
		rec, err := h.Content.Create(r.Context(), kind, in)
		if err != nil {
			writeAPIError(w, loggerOrNop(h.Log), err)
			return
		}
		w.Header().Set("Location", "/api/"+kind.Plural()+"/"+rec.ID)
		writeJSON(w, http.StatusCreated, rec)
	}
}

// Update handles PUT /api/{kind}/{id}.
func (h *APIHandler) Update(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, ok := decodeInput(w, r)
		if !ok {
			return
		}
		rec, err := h.Content.Update(r.Context(), kind, chi.URLParam(r, "id"), in)
		if err != nil {
			writeAPIError(w, loggerOrNop(h.Log), err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// Delete handles DELETE /api/{kind}/{id}.
func (h *APIHandler) Delete(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.Content.Delete(r.Context(), kind, chi.URLParam(r, "id")); err != nil {
			writeAPIError(w, loggerOrNop(h.Log), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func decodeInput(w http.ResponseWriter, r *http.Request) (models.RecordInput, bool) {
	var in models.RecordInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid body"})
		return in, false
	}
	return in, true
}
