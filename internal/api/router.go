package api

import (
	"net/http"

	"github.com/ayo6706/brokerage-admin/internal/api/handler"
	"github.com/ayo6706/brokerage-admin/internal/api/middleware"
	"github.com/ayo6706/brokerage-admin/internal/api/spec"
	"github.com/ayo6706/brokerage-admin/internal/config"
	"github.com/ayo6706/brokerage-admin/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// Router wires the admin REST contract onto chi.
type Router struct {
	cfg      *config.Config
	logger   *zap.Logger
	services *service.Services
	auth     *middleware.Authenticator
	idem     middleware.IdempotencyStore
	checks   map[string]handler.Check
}

func NewRouter(cfg *config.Config, logger *zap.Logger, services *service.Services, auth *middleware.Authenticator, idem middleware.IdempotencyStore, checks map[string]handler.Check) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{cfg: cfg, logger: logger, services: services, auth: auth, idem: idem, checks: checks}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   api.cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	healthHandler := handler.NewHealthHandler(api.checks)
	authHandler := handler.NewAuthHandler(api.auth, api.cfg.DevLoginEnabled)
	userHandler := handler.NewUserHandler(api.services.Users)
	transactionHandler := handler.NewTransactionHandler(api.services.Transactions)
	kycHandler := handler.NewKycHandler(api.services.Kyc)
	ticketHandler := handler.NewTicketHandler(api.services.Tickets)
	adminHandler := handler.NewAdminHandler(api.services)

	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/openapi.yaml", spec.OpenAPIHandler())
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusMovedPermanently)
	})
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	// Public Routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))
		r.Post("/api/auth/token", authHandler.Token)
	})

	// Admin Routes
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(api.auth.Middleware)
		r.Use(middleware.RequireRole(middleware.RoleAdmin))
		r.Use(middleware.AdminRateLimiter(api.cfg.AuthRateLimitRPS))
		idem := middleware.IdempotencyMiddleware(api.idem, api.logger)

		r.Get("/stats", adminHandler.Stats)
		r.Get("/references/dangling", adminHandler.DanglingReferences)
		r.Get("/audit", adminHandler.Audit)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.Get)
			r.With(idem).Put("/{id}", userHandler.Update)
			r.With(idem).Put("/{id}/status", userHandler.ChangeStatus)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", transactionHandler.List)
			r.Get("/{id}", transactionHandler.Get)
			r.With(idem).Post("/{id}/approve", transactionHandler.Approve)
			r.With(idem).Post("/{id}/reject", transactionHandler.Reject)
		})

		r.Route("/kyc", func(r chi.Router) {
			r.Get("/", kycHandler.List)
			r.Get("/{id}", kycHandler.Get)
			r.With(idem).Post("/{id}/approve", kycHandler.Approve)
			r.With(idem).Post("/{id}/reject", kycHandler.Reject)
			r.With(idem).Post("/{id}/resubmit", kycHandler.Resubmit)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", ticketHandler.List)
			r.Get("/{id}", ticketHandler.Get)
			r.With(idem).Post("/{id}/reply", ticketHandler.Reply)
			r.With(idem).Post("/{id}/assign", ticketHandler.Assign)
			r.With(idem).Put("/{id}/status", ticketHandler.ChangeStatus)
		})
	})

	return r
}
