// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"stockfolio/internal/api/handler"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(ledgerHandler *handler.LedgerHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Ledger API routes. The authenticated userID is supplied by the caller's
	// session layer; this surface trusts it.
	r.Post("/users", ledgerHandler.CreateUser)
	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/portfolio", ledgerHandler.GetPortfolio)
		r.Get("/cash", ledgerHandler.GetCashBalance)
		r.Post("/cash", ledgerHandler.AddCash)
		r.Get("/history", ledgerHandler.GetHistory)
		r.Post("/buy", ledgerHandler.Buy)
		r.Post("/sell", ledgerHandler.Sell)
	})

	// Quote passthrough
	r.Get("/quotes/{symbol}", ledgerHandler.GetQuote)

	return r
}
