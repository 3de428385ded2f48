package api

import (
	"tally-server/src/handlers"
	"tally-server/src/middleware"
	"tally-server/src/services"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Services struct {
	Auth         *services.AuthService
	Transactions *services.TransactionService
	Categories   *services.CategoryService
	Budgets      *services.BudgetService
}

type Options struct {
	AllowedOrigins []string
	DemoMode       bool
}

func NewRouter(svc Services, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORSMiddleware(opts.AllowedOrigins))
	r.Use(middleware.DemoModeMiddleware(opts.DemoMode))

	r.Get("/health", handlers.Health())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handlers.Health())
		r.Get("/health/ping", handlers.Ping())

		r.Post("/auth/register", handlers.Register(svc.Auth))
		r.Post("/auth/login", handlers.Login(svc.Auth))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(svc.Auth)).Group(func(r chi.Router) {
			// Auth
			r.Post("/auth/logout", handlers.Logout(svc.Auth))
			r.Post("/auth/logout-all", handlers.LogoutAll(svc.Auth))

			// User
			r.Get("/users/me", handlers.GetCurrentUser(svc.Auth))

			// Transactions
			r.Post("/transactions", handlers.CreateTransaction(svc.Transactions))
			r.Get("/transactions", handlers.ListTransactions(svc.Transactions))
			r.Get("/transactions/date-range", handlers.ListTransactionsByDateRange(svc.Transactions))
			r.Get("/transactions/category/{categoryId}", handlers.ListTransactionsByCategory(svc.Transactions))
			r.Get("/transactions/recent", handlers.RecentTransactions(svc.Transactions))
			r.Get("/transactions/count", handlers.CountTransactions(svc.Transactions))
			r.Get("/transactions/summary/totals", handlers.TransactionTotals(svc.Transactions))
			r.Get("/transactions/summary/by-category", handlers.ExpensesByCategory(svc.Transactions))
			r.Get("/transactions/export", handlers.ExportTransactions(svc.Transactions))
			r.Get("/transactions/{id}", handlers.GetTransaction(svc.Transactions))
			r.Put("/transactions/{id}", handlers.UpdateTransaction(svc.Transactions))
			r.Delete("/transactions/{id}", handlers.DeleteTransaction(svc.Transactions))

			// Categories
			r.Get("/categories", handlers.GetAllCategories(svc.Categories))
			r.Post("/categories", handlers.CreateCategory(svc.Categories))
			r.Get("/categories/{id}", handlers.GetCategoryByID(svc.Categories))

			// Budgets
			r.Post("/budgets", handlers.CreateBudget(svc.Budgets))
			r.Get("/budgets", handlers.GetAllBudgets(svc.Budgets))
			r.Get("/budgets/alerts", handlers.GetBudgetAlerts(svc.Budgets))
			r.Get("/budgets/{id}", handlers.GetBudgetByID(svc.Budgets))
			r.Put("/budgets/{id}", handlers.UpdateBudget(svc.Budgets))
			r.Delete("/budgets/{id}", handlers.DeleteBudget(svc.Budgets))
		})
	})

	r.NotFound(handlers.NotFound)

	return r
}
