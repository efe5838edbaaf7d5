package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/adapter/http/handler"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/adapter/http/middleware"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/infrastructure/auth"
	"github.com/Japhetjohn/my-arte-lab.app-sub001/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BookingHandler   *handler.BookingHandler
	WalletHandler    *handler.WalletHandler
	LedgerHandler    *handler.LedgerHandler
	WebhookHandler   *handler.WebhookHandler
	HealthHandler    *handler.HealthHandler
	AuthHandler      *handler.AuthHandler
	IdempotencyStore usecase.IdempotencyStore

	// JWTManager enables authentication when set. Without it every route is
	// open and the acting user comes from the request body.
	JWTManager *auth.JWTManager

	Logger zerolog.Logger

	// RateLimit is requests per second per IP; zero disables limiting.
	RateLimit      float64
	RateLimitBurst int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitBurst)
		r.Use(limiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// Gateway callbacks authenticate with an HMAC signature, not a JWT, and
	// carry their own idempotency in the ledger.
	r.Post("/webhooks/payment-confirmed", cfg.WebhookHandler.PaymentConfirmed)

	authEnabled := cfg.JWTManager != nil
	requireAuth := func(r chi.Router) chi.Router {
		if authEnabled {
			return r.With(middleware.AuthMiddleware(cfg.JWTManager))
		}
		return r
	}
	requireAdmin := func(r chi.Router) chi.Router {
		if authEnabled {
			return requireAuth(r).With(middleware.RequireAdmin)
		}
		return r
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		if cfg.AuthHandler != nil {
			r.Post("/auth/login", cfg.AuthHandler.Login)
			requireAuth(r).Get("/auth/me", cfg.AuthHandler.GetCurrentUser)
		}

		// Direct bookings
		r.Route("/bookings", func(r chi.Router) {
			requireAuth(r).Post("/", cfg.BookingHandler.CreateBooking)
			requireAuth(r).Get("/", cfg.BookingHandler.List)
			requireAuth(r).Get("/{id}", cfg.BookingHandler.Get)
			registerNegotiationRoutes(r, cfg, requireAuth, requireAdmin)
		})

		// Project applications share the negotiation engine with bookings.
		r.Route("/project-applications", func(r chi.Router) {
			requireAuth(r).Post("/", cfg.BookingHandler.CreateProjectApplication)
			requireAuth(r).Get("/", cfg.BookingHandler.List)
			requireAuth(r).Get("/{id}", cfg.BookingHandler.Get)
			registerNegotiationRoutes(r, cfg, requireAuth, requireAdmin)
		})

		// Wallets
		r.Route("/wallets", func(r chi.Router) {
			requireAuth(r).Post("/", cfg.WalletHandler.Create)
			requireAuth(r).Get("/{id}", cfg.WalletHandler.Get)
			requireAuth(r).Post("/{id}/deposit", cfg.WalletHandler.Deposit)
			requireAuth(r).Post("/{id}/withdraw", cfg.WalletHandler.Withdraw)
			requireAuth(r).Get("/{id}/entries", cfg.WalletHandler.ListEntries)
			requireAuth(r).Get("/{id}/holds", cfg.WalletHandler.ListHolds)
			requireAdmin(r).Post("/{id}/reconcile", cfg.LedgerHandler.ReconcileWallet)
		})

		// Ledger-wide checks
		r.Route("/ledger", func(r chi.Router) {
			requireAdmin(r).Get("/consistency", cfg.LedgerHandler.Consistency)
			requireAdmin(r).Post("/reconcile", cfg.LedgerHandler.Reconcile)
		})
	})

	return r
}

type routeGuard func(chi.Router) chi.Router

// registerNegotiationRoutes mounts the transition endpoints shared by
// bookings and project applications.
func registerNegotiationRoutes(r chi.Router, cfg RouterConfig, requireAuth, requireAdmin routeGuard) {
	requireAuth(r).Post("/{id}/accept", cfg.BookingHandler.Accept)
	requireAuth(r).Post("/{id}/reject", cfg.BookingHandler.Reject)
	requireAuth(r).Post("/{id}/counter", cfg.BookingHandler.Counter)
	requireAuth(r).Post("/{id}/accept-counter", cfg.BookingHandler.AcceptCounter)
	requireAuth(r).Post("/{id}/reject-counter", cfg.BookingHandler.RejectCounter)
	requireAuth(r).Post("/{id}/pay", cfg.BookingHandler.Pay)
	requireAuth(r).Post("/{id}/deliver", cfg.BookingHandler.Deliver)
	requireAuth(r).Post("/{id}/approve", cfg.BookingHandler.Approve)
	requireAuth(r).Post("/{id}/cancel", cfg.BookingHandler.Cancel)
	requireAuth(r).Post("/{id}/dispute", cfg.BookingHandler.Dispute)
	requireAdmin(r).Post("/{id}/resolve-dispute", cfg.BookingHandler.ResolveDispute)
	requireAuth(r).Get("/{id}/entries", cfg.LedgerHandler.NegotiationEntries)
}
