package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api/handlers"
	custommiddleware "github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/api/middleware"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/config"
	"github.com/joel-joel-joel/Personal-Investment-Portfolio-Tracker/internal/service"
)

// Services bundles the services the router exposes.
type Services struct {
	System      *service.SystemService
	Transaction *service.TransactionService
	Dividend    *service.DividendService
	Snapshot    *service.SnapshotService
	Account     *service.AccountService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(custommiddleware.NewCORS(cfg.CORS))

	validUUID := custommiddleware.ValidateUUIDMiddleware

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(svc.Transaction)
			r.Post("/", transactionHandler.CreateTransaction)
			r.With(validUUID).Get("/account/{uuid}", transactionHandler.TransactionsPerAccount)
		})

		r.Route("/dividend", func(r chi.Router) {
			dividendHandler := handlers.NewDividendHandler(svc.Dividend)
			r.Post("/", dividendHandler.CreateDividend)
			r.With(validUUID).Get("/account/{uuid}", dividendHandler.AccountPayments)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(validUUID)
				r.Post("/distribute", dividendHandler.DistributeDividend)
				r.Get("/payments", dividendHandler.Payments)
			})
		})

		r.Route("/snapshot", func(r chi.Router) {
			snapshotHandler := handlers.NewSnapshotHandler(svc.Snapshot)
			r.Post("/generate-all", snapshotHandler.GenerateAll)
			r.Route("/account/{uuid}", func(r chi.Router) {
				r.Use(validUUID)
				r.Post("/", snapshotHandler.CreateSnapshot)
				r.Get("/", snapshotHandler.SnapshotsPerAccount)
			})
		})

		r.Route("/account/{uuid}", func(r chi.Router) {
			r.Use(validUUID)
			accountHandler := handlers.NewAccountHandler(svc.Account)
			r.Get("/summary", accountHandler.Summary)
			r.Get("/holdings", accountHandler.Holdings)
		})
	})

	return r
}
