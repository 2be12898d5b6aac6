// internal/service/portfolio_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"stockfolio/internal/domain"
	"stockfolio/internal/quote"
	"stockfolio/internal/repository"
	"stockfolio/internal/util"
)

// HoldingLine is one row of a valued portfolio: a stored holding enriched
// with the live quote. When the provider cannot price the symbol the line is
// kept with PriceUnavailable set instead of being dropped, and its value is
// excluded from the grand total.
type HoldingLine struct {
	Symbol           string          `json:"symbol"`
	Name             string          `json:"name,omitempty"`
	Price            decimal.Decimal `json:"price"`
	Shares           int64           `json:"shares"`
	Value            decimal.Decimal `json:"value"`
	PriceUnavailable bool            `json:"price_unavailable,omitempty"`
}

// PortfolioView is the full valued portfolio for one user.
type PortfolioView struct {
	Holdings   []HoldingLine   `json:"holdings"`
	Cash       decimal.Decimal `json:"cash"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// PortfolioService defines the read-only portfolio views. No method mutates
// ledger state.
type PortfolioService interface {
	GetHoldings(ctx context.Context, userID int64) (*PortfolioView, error)
	GetHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error)
	GetCashBalance(ctx context.Context, userID int64) (decimal.Decimal, error)
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

// portfolioService implements the PortfolioService interface.
type portfolioService struct {
	dbExecutor      repository.DBExecutor
	userRepo        repository.UserRepository
	holdingRepo     repository.HoldingRepository
	transactionRepo repository.TransactionRepository
	quotes          quote.Provider
	logger          *slog.Logger
}

// NewPortfolioService creates a new instance of PortfolioService.
func NewPortfolioService(
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	holdingRepo repository.HoldingRepository,
	transactionRepo repository.TransactionRepository,
	quotes quote.Provider,
	logger *slog.Logger,
) PortfolioService {
	return &portfolioService{
		dbExecutor:      dbExecutor,
		userRepo:        userRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		quotes:          quotes,
		logger:          logger,
	}
}

// GetHoldings returns the user's holdings valued at live prices, plus cash
// and the grand total (priced lines + cash).
func (s *portfolioService) GetHoldings(ctx context.Context, userID int64) (*PortfolioView, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("get holdings: failed to get user %d: %w", userID, err)
	}

	holdings, err := s.holdingRepo.ListHoldingsByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("get holdings: failed to list holdings for user %d: %w", userID, err)
	}

	view := &PortfolioView{
		Holdings: make([]HoldingLine, 0, len(holdings)),
		Cash:     user.Cash,
	}
	total := user.Cash
	for _, h := range holdings {
		line := HoldingLine{
			Symbol: h.Symbol,
			Shares: h.Shares,
		}
		quoted, err := s.quotes.Lookup(ctx, h.Symbol)
		if err != nil {
			s.logger.Warn("quote lookup failed for held symbol",
				"user_id", userID, "symbol", h.Symbol, "error", err)
			line.PriceUnavailable = true
		} else {
			line.Name = quoted.Name
			line.Price = quoted.Price
			line.Value = quoted.Price.Mul(decimal.NewFromInt(h.Shares)).Round(2)
			total = total.Add(line.Value)
		}
		view.Holdings = append(view.Holdings, line)
	}
	view.GrandTotal = total

	return view, nil
}

// GetHistory returns a page of the user's trade log in insertion order,
// using stored executed prices. No live quote calls.
func (s *portfolioService) GetHistory(ctx context.Context, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	_, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, 0, util.ErrUserNotFound
		}
		return nil, 0, fmt.Errorf("get history: failed to get user %d: %w", userID, err)
	}

	transactions, totalCount, err := s.transactionRepo.ListTransactionsByUserID(ctx, s.dbExecutor, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("get history: %w", err)
	}
	return transactions, totalCount, nil
}

// GetCashBalance returns the user's current cash.
func (s *portfolioService) GetCashBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	user, err := s.userRepo.GetUserByID(ctx, s.dbExecutor, userID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return decimal.Zero, util.ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("get cash balance: failed to get user %d: %w", userID, err)
	}
	return user.Cash, nil
}

// GetQuote passes a symbol lookup through to the provider.
func (s *portfolioService) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	return s.quotes.Lookup(ctx, symbol)
}
