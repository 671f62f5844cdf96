package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tripledger/tripledger/internal/adapter/http/handler"
	"github.com/tripledger/tripledger/internal/adapter/http/middleware"
	"github.com/tripledger/tripledger/internal/infrastructure/metrics"
	"github.com/tripledger/tripledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	TripHandler        *handler.TripHandler
	MemberHandler      *handler.MemberHandler
	WalletHandler      *handler.WalletHandler
	CategoryHandler    *handler.CategoryHandler
	TransactionHandler *handler.TransactionHandler
	StatsHandler       *handler.StatsHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	Metrics            *metrics.Metrics
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)

	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Trips and trip-scoped resources
		r.Route("/trips", func(r chi.Router) {
			r.Post("/", cfg.TripHandler.Create)
			r.Get("/", cfg.TripHandler.List)
			r.Get("/{id}", cfg.TripHandler.Get)
			r.Patch("/{id}", cfg.TripHandler.Update)
			r.Delete("/{id}", cfg.TripHandler.Delete)

			r.Post("/{id}/members", cfg.MemberHandler.Add)
			r.Get("/{id}/members", cfg.MemberHandler.List)

			r.Post("/{id}/wallets", cfg.WalletHandler.Create)
			r.Get("/{id}/wallets", cfg.WalletHandler.List)

			r.Get("/{id}/balances", cfg.StatsHandler.Balances)
			r.Get("/{id}/settlement", cfg.StatsHandler.Settlement)
			r.Get("/{id}/consistency", cfg.StatsHandler.Consistency)
			r.Get("/{id}/stats/summary", cfg.StatsHandler.Summary)
			r.Get("/{id}/stats/by-category", cfg.StatsHandler.ByCategory)
			r.Get("/{id}/stats/trend", cfg.StatsHandler.Trend)
			r.Get("/{id}/stats/per-person", cfg.StatsHandler.PerPerson)
			r.Get("/{id}/stats/wallets", cfg.StatsHandler.WalletSummaries)
		})

		// Members
		r.Route("/members", func(r chi.Router) {
			r.Get("/{id}", cfg.MemberHandler.Get)
			r.Patch("/{id}", cfg.MemberHandler.Rename)
			r.Delete("/{id}", cfg.MemberHandler.Remove)
		})

		// Wallets
		r.Route("/wallets", func(r chi.Router) {
			r.Get("/{id}", cfg.WalletHandler.Get)
			r.Patch("/{id}", cfg.WalletHandler.Update)
			r.Put("/{id}/members", cfg.WalletHandler.ReplaceMembers)
			r.Delete("/{id}", cfg.WalletHandler.Delete)
		})

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Post("/", cfg.CategoryHandler.Create)
			r.Get("/", cfg.CategoryHandler.List)
			r.Get("/{id}", cfg.CategoryHandler.Get)
			r.Patch("/{id}", cfg.CategoryHandler.Update)
			r.Delete("/{id}", cfg.CategoryHandler.Delete)
		})

		// Global aggregation views, optionally narrowed with ?trip_id=
		r.Route("/statistics", func(r chi.Router) {
			r.Get("/summary", cfg.StatsHandler.Summary)
			r.Get("/by-category", cfg.StatsHandler.ByCategory)
			r.Get("/trend", cfg.StatsHandler.Trend)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", cfg.TransactionHandler.Create)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{id}", cfg.TransactionHandler.Get)
			r.Patch("/{id}", cfg.TransactionHandler.Update)
			r.Delete("/{id}", cfg.TransactionHandler.Delete)
		})
	})

	return r
}
