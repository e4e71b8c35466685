// Package router assembles the HTTP route table and middleware chain.
package router

import (
	"fmt"
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/restdemo/userapi/internal/apidoc"
	"github.com/restdemo/userapi/internal/config"
	"github.com/restdemo/userapi/internal/handler"
	"github.com/restdemo/userapi/internal/metrics"
	"github.com/restdemo/userapi/internal/middleware"
	"github.com/restdemo/userapi/internal/service"
)

// Handlers groups the endpoint handlers mounted by New.
type Handlers struct {
	Root    *handler.Handler
	Health  *handler.HealthHandler
	Users   *handler.UserHandler
	Docs    *handler.DocsHandler
	Metrics *handler.MetricsHandler
}

// New configures the chi router with all routes and middleware.
func New(cfg *config.Config, logger *slog.Logger, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(middleware.RecovererConfig{
		Logger:       logger,
		ExposeErrors: cfg.IsDevelopment(),
	}))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: cfg.IsDevelopment(),
	}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	corsCfg.AllowCredentials = cfg.CORSAllowCredentials
	r.Use(middleware.CORS(corsCfg))

	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Logger: logger,
		Window: cfg.RateLimitWindow,
		Max:    cfg.RateLimitMax,
	}))
	r.Use(middleware.PrettyJSON(cfg.IsDevelopment()))

	r.Get("/", h.Root.Root)
	r.Get("/health", h.Health.Health)
	r.Get("/healthz", h.Health.Healthz)
	r.Get("/readyz", h.Health.Readyz)

	if h.Metrics != nil {
		r.Get("/metrics", h.Metrics.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/docs", h.Docs.Docs)
		r.Get("/openapi.yaml", h.Docs.OpenAPI)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.Users.List)
			r.Post("/", h.Users.Create)
			r.Get("/search", h.Users.Search)
			r.Get("/stats", h.Users.Stats)
			r.Get("/{id}", h.Users.Get)
			r.Put("/{id}", h.Users.Update)
			r.Delete("/{id}", h.Users.Delete)
		})
	})

	r.NotFound(h.Root.NotFound)
	r.MethodNotAllowed(h.Root.MethodNotAllowed)

	return r
}

// Store is what the router's handlers need from the user store.
type Store interface {
	service.UserStore
	handler.HealthChecker
}

// Build wires the service and handlers around store and returns the router.
func Build(cfg *config.Config, logger *slog.Logger, store Store, recorder *metrics.InMemoryRecorder) (*chi.Mux, error) {
	doc, err := apidoc.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load api description: %w", err)
	}

	info := handler.AppInfo{
		Name:        cfg.AppName,
		Version:     cfg.AppVersion,
		Environment: cfg.AppEnv,
		Development: cfg.IsDevelopment(),
	}

	var rec metrics.Recorder = metrics.NewNoop()
	var snap metrics.Snapshotter
	if recorder != nil {
		rec = recorder
		snap = recorder
	}

	svc := service.NewUserService(store, rec)

	h := Handlers{
		Root:    handler.New(info),
		Health:  handler.NewHealthHandler(store, info),
		Users:   handler.NewUserHandler(svc, rec, logger, info),
		Docs:    handler.NewDocsHandler(doc, cfg.AppVersion),
		Metrics: handler.NewMetricsHandler(snap),
	}

	return New(cfg, logger, h), nil
}
