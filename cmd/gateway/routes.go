package main

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	api "github.com/mind-engage/h5pimporter/internal/api/http"
	auth "github.com/mind-engage/h5pimporter/internal/auth/middleware"
	"github.com/mind-engage/h5pimporter/internal/config"
	"github.com/mind-engage/h5pimporter/internal/content"
	"github.com/mind-engage/h5pimporter/internal/h5p"
	"github.com/mind-engage/h5pimporter/internal/importer"
	"github.com/mind-engage/h5pimporter/internal/metrics"
	rbac "github.com/mind-engage/h5pimporter/internal/rbac"
	"github.com/mind-engage/h5pimporter/internal/tracing"
)

type server struct {
	cfg      config.Config
	log      *zap.Logger
	registry *h5p.Registry
	store    content.Store
	events   api.EventLister
	importer *importer.Service
	authSvc  *auth.AuthService
	accounts map[string]auth.Account
	metrics  *metrics.Metrics
	static   fs.FS
	ready    func(ctx context.Context) error
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(tracing.Middleware)
	r.Use(s.metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", api.FormHandler(s.registry))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))
	r.Post("/auth/login", auth.LoginHandler(s.authSvc, s.accounts))
	r.Get("/content-types", api.ContentTypesHandler(s.registry))

	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(s.authSvc))

		pr.Group(func(ir chi.Router) {
			ir.Use(rbac.Require(rbac.PermContentImport))
			if s.cfg.RateLimitPerMinute > 0 {
				ir.Use(api.NewRateLimiter(s.cfg.RateLimitPerMinute, time.Minute).Middleware)
			}
			ir.Post("/importer/preview", api.PreviewHandler(s.importer, s.cfg.MaxUploadBytes, s.log))
			ir.Post("/importer/import", api.ImportHandler(s.importer, s.registry, s.cfg.MaxUploadBytes, s.log))
		})

		pr.With(rbac.Require(rbac.PermContentView)).
			Get("/content/{id}", api.GetContentHandler(s.store))
		pr.With(rbac.Require(rbac.PermContentView)).
			Get("/node/{id}", api.GetNodeHandler(s.store))
		pr.With(rbac.Require(rbac.PermContentView)).
			Get("/events", api.ListEventsHandler(s.events))
	})

	r.Handle("/metrics", s.metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if s.ready != nil {
			if err := s.ready(r.Context()); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(200)
	})
	return r
}
