package http

import (
	"net/http"
	"time"

	"github.com/Krackerr154/glabs-website/internal/middleware"
	"github.com/Krackerr154/glabs-website/internal/models"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries everything NewRouter mounts.
type RouterConfig struct {
	Auth   *AuthHandler
	Admin  *AdminHandler
	API    *APIHandler
	Public *PublicHandler

	Gate    *middleware.Gate
	Metrics *middleware.Metrics

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler

	Logger  *zap.Logger
	Timeout time.Duration
}

// NewRouter constructs the site's HTTP handler.
//
// Routes:
//
//	GET  /, /{kind}, /{kind}/{slug}, /sitemap.xml, /healthz, /metrics  public
//	GET  /admin/login, POST /admin/login                               public
//	/admin/...                                                         page guard (302 to login)
//	/api/...                                                           API guard (401 JSON)
//
// {kind} is the plural kind name: notes, experiments or projects.
//
// Middleware chain (applied in order):
//  1. RequestID, RealIP
//  2. WithRequestLogging(logger)
//  3. Recoverer
//  4. Metrics
//  5. Timeout
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.WithRequestLogging(loggerOrNop(cfg.Logger)))
	r.Use(chiMiddleware.Recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	if cfg.Timeout > 0 {
		r.Use(chiMiddleware.Timeout(cfg.Timeout))
	}

	// Public site
	r.Get("/", cfg.Public.Home)
	r.Get("/sitemap.xml", cfg.Public.Sitemap)
	r.Get("/healthz", cfg.Public.Healthz)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}
	for _, kind := range models.Kinds {
		r.Get("/"+kind.Plural(), cfg.Public.List(kind))
		r.Get("/"+kind.Plural()+"/{slug}", cfg.Public.Show(kind))
	}

	// Back-office pages
	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", cfg.Auth.LoginForm)
		r.Post("/login", cfg.Auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(cfg.Gate.PageGuard)
			r.Post("/logout", cfg.Auth.Logout)
			r.Get("/", cfg.Admin.Dashboard)
			for _, kind := range models.Kinds {
				r.Route("/"+kind.Plural(), func(r chi.Router) {
					r.Get("/", cfg.Admin.List(kind))
					r.Get("/new", cfg.Admin.New(kind))
					r.Post("/", cfg.Admin.Create(kind))
					r.Get("/{id}/edit", cfg.Admin.Edit(kind))
					r.Post("/{id}", cfg.Admin.Update(kind))
					r.Post("/{id}/delete", cfg.Admin.Delete(kind))
				})
			}
		})
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))
		r.Use(cfg.Gate.APIGuard)
		for _, kind := range models.Kinds {
			r.Route("/"+kind.Plural(), func(r chi.Router) {
				r.Get("/", cfg.API.List(kind))
				r.Post("/", cfg.API.Create(kind))
				r.Get("/{id}", cfg.API.Get(kind))
				r.Put("/{id}", cfg.API.Update(kind))
				r.Delete("/{id}", cfg.API.Delete(kind))
			})
		}
	})

	return r
}
