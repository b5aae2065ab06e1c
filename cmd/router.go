package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sbilibin2017/finanfun/internal/handlers"
	"github.com/sbilibin2017/finanfun/internal/logger"
	"github.com/sbilibin2017/finanfun/internal/middlewares"
)

// newRouter mounts every route under /api plus /metrics and /swagger.
func newRouter(cfg *config, a *app) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{middlewares.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authenticated := middlewares.AuthMiddleware(a.sessions)
	authLimit := middlewares.RateLimit(a.rateCounter, "auth", cfg.RateLimitAuth, cfg.RateLimitWindow)

	r.Route("/api", func(r chi.Router) {
		r.Use(middlewares.Timeout(cfg.RequestTimeout))

		r.Get("/health", handlers.NewHealthHandler(a.health))

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(authLimit)
				r.Post("/register", handlers.NewRegisterHandler(a.auth))
				r.Post("/login", handlers.NewLoginHandler(a.auth))
				r.Get("/{provider}/start", handlers.NewOAuthStartHandler(a.auth, a.states))
				r.Get("/{provider}/callback", handlers.NewOAuthCallbackHandler(a.auth, a.states))
			})
			r.Post("/logout", handlers.NewLogoutHandler(a.auth))

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				me := handlers.NewMeHandler(a.auth)
				r.Get("/me", me)
				r.Get("/user", me)
			})
		})

		// Protected routes with session middleware
		r.Group(func(r chi.Router) {
			r.Use(authenticated)

			r.Patch("/users/me", handlers.NewUpdateUserHandler(a.credentials))
			r.Delete("/users/me", handlers.NewDeleteUserHandler(a.credentials))

			r.Get("/accounts", handlers.NewAccountsHandler(a.ledger))

			r.Get("/dashboard/parent", handlers.NewParentDashboardHandler(a.dashboards))
			r.Get("/dashboard/child", handlers.NewChildDashboardHandler(a.dashboards))
			r.Get("/dashboard/child/{childID}", handlers.NewLinkedChildDashboardHandler(a.dashboards))

			r.Post("/bitfun/transaction", handlers.NewTransactionHandler(a.ledger))
			r.Post("/bitfun/transfer", handlers.NewTransferHandler(a.ledger))

			r.Post("/family/children", handlers.NewLinkChildHandler(a.family))
			r.Delete("/family/children/{childID}", handlers.NewUnlinkChildHandler(a.family))
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	return r
}
