package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/Krackerr154/glabs-website/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages lists every template rendered inside the shared layout.
var pages = []string{
	"home.html",
	"list.html",
	"show.html",
	"login.html",
	"dashboard.html",
	"admin_list.html",
	"form.html",
	"error.html",
}

var templateFuncs = template.FuncMap{
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format("January 2, 2006")
	},
	"join": func(tags []string) string { return strings.Join(tags, ", ") },
	"statuses": func() []string {
		return []string{models.StatusPlanning, models.StatusInProgress, models.StatusCompleted, models.StatusArchived}
	},
}

// Views renders the embedded HTML templates.
type Views struct {
	pages map[string]*template.Template
}

// page is the value every template receives.
type page struct {
	Title string
	Admin bool
	Kinds []models.Kind
	Data  any
}

// NewViews parses the embedded templates.
func NewViews() (*Views, error) {
	v := &Views{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// Render writes the named page with status. Output is buffered so a
// template failure never leaves a half-written response.
func (v *Views) Render(w http.ResponseWriter, status int, name, title string, admin bool, data any) error {
	t, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}

	var buf bytes.Buffer
	err := t.ExecuteTemplate(&buf, "layout", page{Title: title, Admin: admin, Kinds: models.Kinds, Data: data})
	if err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}
