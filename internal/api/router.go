package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/api/middleware"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/auth"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/config"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/metrics"
	"github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/service"
)

// Services bundles the services the HTTP API delegates to.
type Services struct {
	System      *service.SystemService
	User        *service.UserService
	Product     *service.ProductService
	Transaction *service.TransactionService
	Dividend    *service.DividendService
	Expense     *service.ExpenseService
	Realized    *service.RealizedProfitLossService
	Portfolio   *service.PortfolioService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, issuer auth.TokenIssuer, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(custommiddleware.Metrics(m))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Method(http.MethodGet, "/metrics", m.Handler())

	requireAuth := custommiddleware.RequireAuth(issuer)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/auth", func(r chi.Router) {
			authHandler := handlers.NewAuthHandler(svc.User, issuer, cfg.Auth)
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/signout", authHandler.Signout)
			r.Get("/session", authHandler.Session)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/product", func(r chi.Router) {
				productHandler := handlers.NewProductHandler(svc.Product, svc.Transaction, svc.Portfolio)
				r.Get("/", productHandler.ListProducts)
				r.Post("/", productHandler.CreateProduct)

				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", productHandler.GetProduct)
					r.Put("/", productHandler.UpdateProduct)
					r.Delete("/", productHandler.DeleteProduct)
					r.Get("/metrics", productHandler.ProductMetrics)
					r.Get("/transactions", productHandler.ProductTransactions)
					r.Post("/recompute", productHandler.RecomputeProduct)
				})
			})

			r.Route("/transaction", func(r chi.Router) {
				transactionHandler := handlers.NewTransactionHandler(svc.Transaction)
				r.Get("/", transactionHandler.ListTransactions)
				r.Post("/", transactionHandler.CreateTransaction)

				r.Route("/{uuid}", func(r chi.Router) {
					r.Use(custommiddleware.ValidateUUIDMiddleware)
					r.Get("/", transactionHandler.GetTransaction)
					r.Put("/", transactionHandler.UpdateTransaction)
					r.Delete("/", transactionHandler.DeleteTransaction)
					r.Post("/realize", transactionHandler.RealizeTransaction)
				})
			})

			r.Route("/dividend", func(r chi.Router) {
				dividendHandler := handlers.NewDividendHandler(svc.Dividend)
				r.Get("/", dividendHandler.ListDividends)
				r.Post("/", dividendHandler.CreateDividend)
				r.With(custommiddleware.ValidateUUIDMiddleware).Delete("/{uuid}", dividendHandler.DeleteDividend)
			})

			r.Route("/expense", func(r chi.Router) {
				expenseHandler := handlers.NewExpenseHandler(svc.Expense)
				r.Get("/", expenseHandler.ListExpenses)
				r.Post("/", expenseHandler.CreateExpense)
				r.With(custommiddleware.ValidateUUIDMiddleware).Delete("/{uuid}", expenseHandler.DeleteExpense)
			})

			r.Route("/realized", func(r chi.Router) {
				realizedHandler := handlers.NewRealizedProfitLossHandler(svc.Realized)
				r.Get("/", realizedHandler.ListRealized)
				r.Post("/", realizedHandler.CreateRealized)
				r.With(custommiddleware.ValidateUUIDMiddleware).Delete("/{uuid}", realizedHandler.DeleteRealized)
			})

			portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
			r.Get("/portfolio/summary", portfolioHandler.Summary)
			r.Get("/quote/{ticker}", portfolioHandler.Quote)
		})
	})

	return r
}
