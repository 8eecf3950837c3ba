package http

import (
	"errors"
	"net/http"

	"github.com/Krackerr154/glabs-website/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminHandler serves the back-office pages. Every route sits behind the
// page guard.
type AdminHandler struct {
	Content ContentService
	Views   *Views
	Log     *zap.Logger
}

type kindCount struct {
	Kind  models.Kind
	Count int
}

type dashboardPage struct {
	Counts []kindCount
}

type adminListPage struct {
	Kind    models.Kind
	Records []models.Record
}

type formPage struct {
	Kind   models.Kind
	ID     string
	Action string
	Input  models.RecordInput
	Error  *models.ValidationError
}

func (p formPage) IsNote() bool    { return p.Kind == models.KindNote }
func (p formPage) IsProject() bool { return p.Kind == models.KindProject }

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	log := loggerOrNop(h.Log)
	data := dashboardPage{}
	for _, kind := range models.Kinds {
		n, err := h.Content.Count(r.Context(), kind)
		if err != nil {
			renderError(w, h.Views, log, true, err)
			return
		}
		data.Counts = append(data.Counts, kindCount{Kind: kind, Count: n})
	}
	render(w, h.Views, log, http.StatusOK, "dashboard.html", "Dashboard", true, data)
}

// List handles GET /admin/{kind}: drafts and published records alike.
func (h *AdminHandler) List(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerOrNop(h.Log)
		records, err := h.Content.List(r.Context(), kind, models.ListFilter{})
		if err != nil {
			renderError(w, h.Views, log, true, err)
			return
		}
		render(w, h.Views, log, http.StatusOK, "admin_list.html", kind.Title(), true, adminListPage{Kind: kind, Records: records})
	}
}

// New handles GET /admin/{kind}/new.
func (h *AdminHandler) New(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := formPage{Kind: kind, Action: "/admin/" + kind.Plural()}
		if kind == models.KindProject {
			data.Input.Status = models.StatusInProgress
		}
		render(w, h.Views, loggerOrNop(h.Log), http.StatusOK, "form.html", "New "+string(kind), true, data)
	}
}

// Create handles POST /admin/{kind}.
func (h *AdminHandler) Create(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerOrNop(h.Log)
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		in := recordFromForm(r)

		_, err := h.Content.Create(r.Context(), kind, in)
		if verr, ok := models.AsValidationError(err); ok {
			data := formPage{Kind: kind, Action: "/admin/" + kind.Plural(), Input: in, Error: verr}
			render(w, h.Views, log, http.StatusUnprocessableEntity, "form.html", "New "+string(kind), true, data)
			return
		}
		if err != nil {
			renderError(w, h.Views, log, true, err)
			return
		}
		http.Redirect(w, r, "/admin/"+kind.Plural(), http.StatusFound)
	}
}

// Edit handles GET /admin/{kind}/{id}/edit.
func (h *AdminHandler) Edit(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerOrNop(h.Log)
		id := chi.URLParam(r, "id")
		rec, err := h.Content.Get(r.Context(), kind, id)
		if err != nil {
			renderError(w, h.Views, log, true, err)
			return
		}
		data := formPage{
			Kind:   kind,
			ID:     rec.ID,
			Action: "/admin/" + kind.Plural() + "/" + rec.ID,
			Input:  inputFromRecord(rec),
		}
		render(w, h.Views, log, http.StatusOK, "form.html", "Edit "+rec.Title, true, data)
	}
}

// Update handles POST /admin/{kind}/{id}.
func (h *AdminHandler) Update(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerOrNop(h.Log)
		id := chi.URLParam(r, "id")
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		in := recordFromForm(r)

		_, err := h.Content.Update(r.Context(), kind, id, in)
		if verr, ok := models.AsValidationError(err); ok {
			data := formPage{Kind: kind, ID: id, Action: "/admin/" + kind.Plural() + "/" + id, Input: in, Error: verr}
			render(w, h.Views, log, http.StatusUnprocessableEntity, "form.html", "Edit "+in.Title, true, data)
			return
		}
		if err != nil {
			renderError(w, h.Views, log, true, err)
			return
		}
		http.Redirect(w, r, "/admin/"+kind.Plural(), http.StatusFound)
	}
}

// Delete handles POST /admin/{kind}/{id}/delete. Deleting a record that is
// already gone still redirects back to the list.
func (h *AdminHandler) Delete(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := h.Content.Delete(r.Context(), kind, chi.URLParam(r, "id"))
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			renderError(w, h.Views, loggerOrNop(h.Log), true, err)
			return
		}
		http.Redirect(w, r, "/admin/"+kind.Plural(), http.StatusFound)
	}
}
