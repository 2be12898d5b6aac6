// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "stockfolio/internal/api"
	"stockfolio/internal/api/handler"
	"stockfolio/internal/config"
	"stockfolio/internal/quote"
	"stockfolio/internal/repository"
	"stockfolio/internal/repository/postgres"
	"stockfolio/internal/service"
	"stockfolio/internal/util"
	"stockfolio/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository        repository.UserRepository
	HoldingRepository     repository.HoldingRepository
	TransactionRepository repository.TransactionRepository

	// External collaborators
	QuoteProvider quote.Provider

	// Services
	TradeService     service.TradeService
	PortfolioService service.PortfolioService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()

	// 2. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.HoldingRepository = postgres.NewHoldingRepository(app.DB)
	app.TransactionRepository = postgres.NewTransactionRepository(app.DB)
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize Quote Provider
	if app.QuoteProvider == nil {
		app.QuoteProvider = quote.NewHTTPClient(app.Config.Quote)
	}
	app.Logger.Info("Quote provider initialized.")

	// 6. Initialize Services
	app.TradeService = service.NewTradeService(
		app.DB, // DBTxBeginner
		app.DB, // DBExecutor
		app.UserRepository,
		app.HoldingRepository,
		app.TransactionRepository,
		app.QuoteProvider,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.PortfolioService = service.NewPortfolioService(
		app.DB,
		app.UserRepository,
		app.HoldingRepository,
		app.TransactionRepository,
		app.QuoteProvider,
		app.Logger,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	ledgerHandler := handler.NewLedgerHandler(app.TradeService, app.PortfolioService, app.Logger)
	app.HTTPHandler = router.NewRouter(ledgerHandler, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
