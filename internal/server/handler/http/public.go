package http

import (
	"context"
	"encoding/xml"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/Krackerr154/glabs-website/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// homeLimit is the number of records per kind shown on the home page.
const homeLimit = 5

// MarkdownRenderer turns record content into safe HTML.
type MarkdownRenderer interface {
	HTML(src string) (template.HTML, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PublicHandler serves the public site. Drafts are never visible here.
type PublicHandler struct {
	Content  ContentService
	Views    *Views
	Markdown MarkdownRenderer
	DB       Pinger

	// SiteURL is the absolute base used for sitemap locations.
	SiteURL string
	Log     *zap.Logger
}

type homeSection struct {
	Kind    models.Kind
	Records []models.Record
}

type homePage struct {
	Sections []homeSection
}

type listPage struct {
	Kind    models.Kind
	Tag     string
	Records []models.Record
}

type showPage struct {
	Record *models.Record
	Body   template.HTML
}

var publishedOnly = true

// Home handles GET /.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	log := loggerOrNop(h.Log)
	data := homePage{}
	for _, kind := range models.Kinds {
		records, err := h.Content.List(r.Context(), kind, models.ListFilter{Published: &publishedOnly})
		if err != nil {
			renderError(w, h.Views, log, false, err)
			return
		}
		if len(records) > homeLimit {
			records = records[:homeLimit]
		}
		data.Sections = append(data.Sections, homeSection{Kind: kind, Records: records})
	}
	render(w, h.Views, log, http.StatusOK, "home.html", "Home", false, data)
}

// List handles GET /{kind}?tag=.
func (h *PublicHandler) List(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerOrNop(h.Log)
		tag := strings.TrimSpace(r.URL.Query().Get("tag"))
		records, err := h.Content.List(r.Context(), kind, models.ListFilter{Published: &publishedOnly, Tag: tag})
		if err != nil {
			renderError(w, h.Views, log, false, err)
			return
		}
		render(w, h.Views, log, http.StatusOK, "list.html", kind.Title(), false, listPage{Kind: kind, Tag: tag, Records: records})
	}
}

// Show handles GET /{kind}/{slug}.
func (h *PublicHandler) Show(kind models.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := loggerOrNop(h.Log)
		rec, err := h.Content.Get(r.Context(), kind, chi.URLParam(r, "slug"))
		if err == nil && !rec.Published {
			err = models.ErrNotFound
		}
		if err != nil {
			renderError(w, h.Views, log, false, err)
			return
		}

		body, err := h.Markdown.HTML(rec.Content)
		if err != nil {
			renderError(w, h.Views, log, false, err)
			return
		}
		render(w, h.Views, log, http.StatusOK, "show.html", rec.Title, false, showPage{Record: rec, Body: body})
	}
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap handles GET /sitemap.xml.
func (h *PublicHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	base := strings.TrimRight(h.SiteURL, "/")
	set := urlset{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []sitemapURL{{Loc: base + "/"}},
	}

	for _, kind := range models.Kinds {
		records, err := h.Content.List(r.Context(), kind, models.ListFilter{Published: &publishedOnly})
		if err != nil {
			loggerOrNop(h.Log).Error("sitemap listing failed", zap.Error(err))
			http.Error(w, "storage unavailable", http.StatusInternalServerError)
			return
		}
		set.URLs = append(set.URLs, sitemapURL{Loc: base + "/" + kind.Plural()})
		for _, rec := range records {
			set.URLs = append(set.URLs, sitemapURL{
				Loc:     base + "/" + kind.Plural() + "/" + rec.Slug,
				LastMod: rec.UpdatedAt.UTC().Format(time.DateOnly),
			})
		}
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}

// Healthz handles GET /healthz.
func (h *PublicHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.PingContext(r.Context()); err != nil {
		loggerOrNop(h.Log).Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
