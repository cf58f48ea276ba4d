package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tikidan/internal/domain/auth"
	"tikidan/internal/domain/rbac"
	"tikidan/internal/domain/users"
	"tikidan/internal/platform/config"
	"tikidan/internal/platform/metrics"
	authhandler "tikidan/internal/transport/http/handlers/auth"
	employeeshandler "tikidan/internal/transport/http/handlers/employees"
	roleshandler "tikidan/internal/transport/http/handlers/roles"
	"tikidan/internal/transport/http/middleware"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Config   config.Config
	Users    *users.Service
	Auth     *auth.Service
	Gate     *rbac.Gate
	Metrics  *metrics.Collector
	ReadyzFn func(ctx context.Context) error
}

func NewRouter(d Deps) http.Handler {
	var (
		requests  middleware.RequestRecorder
		decisions middleware.DecisionRecorder
	)
	if d.Metrics != nil {
		requests = d.Metrics
		decisions = d.Metrics
	}
	resolver := d.Gate.Resolver()
	cfg := d.Config

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(requests))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.ReadyzFn != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.ReadyzFn(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	if cfg.MetricsEnabled && d.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	authHandler := authhandler.NewHandler(d.Users, d.Auth, resolver, cfg.AllowSelfSignup)
	employeesHandler := employeeshandler.NewHandler(d.Users, resolver)
	rolesHandler := roleshandler.NewHandler(resolver.Registry())

	router.Route("/api/v1", func(r chi.Router) {
		authHandler.RegisterPublicRoutes(r, middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(d.Gate, decisions))
			r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
			authHandler.RegisterRoutes(r, middleware.RequireCapability(d.Gate, decisions, rbac.CapTeam))
			rolesHandler.RegisterRoutes(r)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(decisions, rbac.RoleAdmin))
				employeesHandler.RegisterRoutes(r)
			})
		})
	})

	return router
}
