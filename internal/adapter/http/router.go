package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sambhav/earnings/internal/adapter/http/handler"
	"github.com/sambhav/earnings/internal/adapter/http/middleware"
	"github.com/sambhav/earnings/internal/domain"
	"github.com/sambhav/earnings/internal/infrastructure/auth"
	"github.com/sambhav/earnings/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler        *handler.AuthHandler
	AccountHandler     *handler.AccountHandler
	LeadHandler        *handler.LeadHandler
	WithdrawalHandler  *handler.WithdrawalHandler
	ApplicationHandler *handler.ApplicationHandler
	BillPayHandler     *handler.BillPayHandler
	LedgerHandler      *handler.LedgerHandler
	ProductHandler     *handler.ProductHandler
	HealthHandler      *handler.HealthHandler
	JWTManager         *auth.JWTManager
	IdempotencyStore   usecase.IdempotencyStore
	RateLimiter        *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Public auth endpoints
	r.Post("/api/v1/auth/register", cfg.AuthHandler.Register)
	r.Post("/api/v1/auth/login", cfg.AuthHandler.Login)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTManager))

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		r.Get("/auth/me", cfg.AuthHandler.Me)

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			// Member accounts are created through /auth/register; direct
			// creation is an admin operation.
			r.With(middleware.RequireRole(domain.RoleAdmin)).Post("/", cfg.AccountHandler.Create)
			r.With(middleware.RequireRole(domain.RoleReviewer)).Get("/", cfg.AccountHandler.List)
			r.Get("/{id}", cfg.AccountHandler.Get)
			r.Get("/{id}/summary", cfg.AccountHandler.Summary)
			r.Get("/{id}/entries", cfg.LedgerHandler.ListEntries)
		})

		// Leads
		r.Route("/leads", func(r chi.Router) {
			r.Post("/", cfg.LeadHandler.Submit)
			r.Get("/", cfg.LeadHandler.List)
			r.Get("/{id}", cfg.LeadHandler.Get)
			r.Post("/{id}/cancel", cfg.LeadHandler.Cancel)
			r.With(middleware.RequireRole(domain.RoleReviewer)).
				Post("/{id}/status", cfg.LeadHandler.Transition)
		})

		// Withdrawals
		r.Route("/withdrawals", func(r chi.Router) {
			r.Post("/", cfg.WithdrawalHandler.Request)
			r.Get("/", cfg.WithdrawalHandler.List)
			r.Get("/{id}", cfg.WithdrawalHandler.Get)
			r.Post("/{id}/cancel", cfg.WithdrawalHandler.Cancel)
			r.With(middleware.RequireRole(domain.RoleReviewer)).
				Post("/{id}/status", cfg.WithdrawalHandler.Transition)
		})

		// Applications
		r.Route("/applications", func(r chi.Router) {
			r.Post("/", cfg.ApplicationHandler.Submit)
			r.Get("/", cfg.ApplicationHandler.List)
			r.Get("/{id}", cfg.ApplicationHandler.Get)
			r.Post("/{id}/cancel", cfg.ApplicationHandler.Cancel)
			r.With(middleware.RequireRole(domain.RoleReviewer)).
				Post("/{id}/status", cfg.ApplicationHandler.Transition)
		})

		// Bill payments
		r.Route("/billpayments", func(r chi.Router) {
			r.Post("/", cfg.BillPayHandler.Pay)
			r.Get("/", cfg.BillPayHandler.List)
			r.Get("/{id}", cfg.BillPayHandler.Get)
		})

		// Products
		r.Route("/products", func(r chi.Router) {
			r.Get("/", cfg.ProductHandler.List)
			r.Get("/{id}", cfg.ProductHandler.Get)
			r.With(middleware.RequireRole(domain.RoleAdmin)).
				Post("/", cfg.ProductHandler.Create)
		})

		// Ledger
		r.Route("/ledger", func(r chi.Router) {
			r.Get("/entries/{id}", cfg.LedgerHandler.GetEntry)
			r.Get("/related/{kind}/{relatedId}", cfg.LedgerHandler.ListByRelated)
			r.With(middleware.RequireRole(domain.RoleAdmin)).
				Post("/adjustments", cfg.LedgerHandler.RecordAdjustment)
			r.With(middleware.RequireRole(domain.RoleAdmin)).
				Get("/consistency", cfg.LedgerHandler.CheckConsistency)
		})
	})

	return r
}
