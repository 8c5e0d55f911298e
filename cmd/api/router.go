package main

import (
	"database/sql"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/teelane/budget-manager/internal/config"
	"github.com/teelane/budget-manager/internal/handlers"
	mw "github.com/teelane/budget-manager/internal/middleware"
	"github.com/teelane/budget-manager/internal/repo"
)

// newRouter builds the full HTTP router. Extracted from main so tests can
// stand up the whole API against their own database.
func newRouter(db *sql.DB, cfg config.Config) chi.Router {
	userRepo := repo.NewUserRepo(db)
	expenseRepo := repo.NewExpenseRepo(db)

	authHandler := handlers.NewAuthHandler(userRepo, []byte(cfg.JWTSecret), cfg.JWTExpireHours)
	userHandler := &handlers.UserHandler{Repo: userRepo}
	expenseHandler := &handlers.ExpenseHandler{Repo: expenseRepo}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.RequestLog)
	r.Use(mw.Recoverer)
	r.Use(mw.SecurityHeaders(cfg.Env == "prod"))
	r.Use(mw.CORS(cfg.CORSAllowedOrigins))
	r.Use(mw.Prometheus)

	r.Get("/api/health", handlers.Health)
	r.Get("/ready", handlers.Ready(db))
	r.Handle("/metrics", promhttp.Handler())

	// Credential endpoints get a tighter envelope: per-IP rate limit plus a
	// body size cap.
	authLimiter := mw.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Use(mw.MaxBytes(mw.DefaultMaxBodyBytes))
		r.Post("/api/register", authHandler.Register)
		r.Post("/api/login", authHandler.Login)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Get("/", userHandler.ListUsers)
		r.Get("/{id}", userHandler.GetUser)
		r.Put("/{id}", userHandler.UpdateUser)
		r.Delete("/{id}", userHandler.DeleteUser)
	})

	r.Route("/api/expenses", func(r chi.Router) {
		r.Post("/", expenseHandler.CreateExpense)
		r.Get("/", expenseHandler.ListExpenses)
		r.Get("/{id}", expenseHandler.GetExpense)
		r.Put("/{id}", expenseHandler.UpdateExpense)
		r.Delete("/{id}", expenseHandler.DeleteExpense)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.JWTMiddleware([]byte(cfg.JWTSecret)))
		r.Get("/api/me", authHandler.Me)
	})

	return r
}
