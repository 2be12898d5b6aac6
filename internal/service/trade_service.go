// internal/service/trade_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stockfolio/internal/domain"
	"stockfolio/internal/quote"
	"stockfolio/internal/repository"
	"stockfolio/internal/util"
	"stockfolio/pkg/db"
)

// startingCash is every new user's opening balance.
var startingCash = decimal.RequireFromString("10000.00")

// TradeResult reports the state after a committed trade: the user's new cash
// balance and the share count now held in the traded symbol (0 when the
// position was fully sold).
type TradeResult struct {
	Cash          decimal.Decimal     `json:"cash"`
	HoldingShares int64               `json:"holding_shares"`
	Transaction   *domain.Transaction `json:"transaction"`
}

// TradeService defines the interface for trade execution business logic.
// Buy and Sell mutate cash, the holding, and the trade log as one atomic
// unit; a rejected trade leaves all three untouched.
type TradeService interface {
	Buy(ctx context.Context, userID int64, symbol string, shares int64) (*TradeResult, error)
	Sell(ctx context.Context, userID int64, symbol string, shares int64) (*TradeResult, error)
	AddCash(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
	CreateUser(ctx context.Context, username string) (*domain.User, error)
}

// tradeService implements the TradeService interface.
type tradeService struct {
	dbBeginner      db.DBTxBeginner
	dbExecutor      repository.DBExecutor
	userRepo        repository.UserRepository
	holdingRepo     repository.HoldingRepository
	transactionRepo repository.TransactionRepository
	quotes          quote.Provider
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
}

// NewTradeService creates a new instance of TradeService.
func NewTradeService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	holdingRepo repository.HoldingRepository,
	transactionRepo repository.TransactionRepository,
	quotes quote.Provider,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) TradeService {
	return &tradeService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		userRepo:        userRepo,
		holdingRepo:     holdingRepo,
		transactionRepo: transactionRepo,
		quotes:          quotes,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
	}
}

// validateTradeInput runs the shared precondition checks for Buy and Sell.
// Returns the normalized symbol.
func validateTradeInput(symbol string, shares int64) (string, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", fmt.Errorf("%w: symbol must be provided", util.ErrInvalidInput)
	}
	if shares < 1 {
		return "", fmt.Errorf("%w: shares must be at least 1", util.ErrInvalidInput)
	}
	return symbol, nil
}

// Buy purchases shares of a symbol at the current quoted price.
// Check order: input validation, quote lookup, funds. The cash debit, trade
// log append, and holding upsert commit together or not at all; the user row
// lock serializes concurrent trades for the same user.
func (s *tradeService) Buy(ctx context.Context, userID int64, symbol string, shares int64) (*TradeResult, error) {
	symbol, err := validateTradeInput(symbol, shares)
	if err != nil {
		return nil, err
	}

	quoted, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}
	cost := quoted.Price.Mul(decimal.NewFromInt(shares)).Round(2)

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("buy: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("buy: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.GetUserByIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("buy: failed to lock user %d: %w", userID, err)
	}

	if cost.GreaterThan(user.Cash) {
		return nil, fmt.Errorf("%w: cost %s exceeds cash %s", util.ErrInsufficientFunds, cost, user.Cash)
	}

	if err := s.userRepo.AdjustCash(ctx, txExecutor, userID, cost.Neg()); err != nil {
		return nil, fmt.Errorf("buy: failed to debit cash: %w", err)
	}

	transaction := domain.NewTransaction(userID, quoted.Symbol, quoted.Price, shares)
	if err := s.transactionRepo.AppendTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("buy: failed to append transaction: %w", err)
	}

	held, err := s.holdingRepo.AddShares(ctx, txExecutor, userID, quoted.Symbol, shares)
	if err != nil {
		return nil, fmt.Errorf("buy: failed to update holding: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("buy: failed to commit transaction: %w", err)
	}

	return &TradeResult{
		Cash:          user.Cash.Sub(cost),
		HoldingShares: held,
		Transaction:   transaction,
	}, nil
}

// Sell sells shares of a held symbol at the current quoted price.
// Check order: input validation, holding existence, share availability,
// quote lookup. Selling the entire position deletes the holding row.
func (s *tradeService) Sell(ctx context.Context, userID int64, symbol string, shares int64) (*TradeResult, error) {
	symbol, err := validateTradeInput(symbol, shares)
	if err != nil {
		return nil, err
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("sell: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("sell: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.GetUserByIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, fmt.Errorf("sell: failed to lock user %d: %w", userID, err)
	}

	holding, err := s.holdingRepo.GetHoldingForUpdate(ctx, txExecutor, userID, symbol)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", util.ErrNoSuchHolding, symbol)
		}
		return nil, fmt.Errorf("sell: failed to lock holding (%d, %s): %w", userID, symbol, err)
	}

	if shares > holding.Shares {
		return nil, fmt.Errorf("%w: requested %d, held %d", util.ErrInsufficientShares, shares, holding.Shares)
	}

	quoted, err := s.quotes.Lookup(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("sell: %w", err)
	}
	proceeds := quoted.Price.Mul(decimal.NewFromInt(shares)).Round(2)

	if err := s.userRepo.AdjustCash(ctx, txExecutor, userID, proceeds); err != nil {
		return nil, fmt.Errorf("sell: failed to credit cash: %w", err)
	}

	transaction := domain.NewTransaction(userID, quoted.Symbol, quoted.Price, -shares)
	if err := s.transactionRepo.AppendTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("sell: failed to append transaction: %w", err)
	}

	var remaining int64
	if shares == holding.Shares {
		if err := s.holdingRepo.DeleteHolding(ctx, txExecutor, userID, symbol); err != nil {
			return nil, fmt.Errorf("sell: failed to delete holding: %w", err)
		}
	} else {
		remaining, err = s.holdingRepo.RemoveShares(ctx, txExecutor, userID, symbol, shares)
		if err != nil {
			return nil, fmt.Errorf("sell: failed to update holding: %w", err)
		}
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("sell: failed to commit transaction: %w", err)
	}

	return &TradeResult{
		Cash:          user.Cash.Add(proceeds),
		HoldingShares: remaining,
		Transaction:   transaction,
	}, nil
}

// AddCash credits a user's cash balance. The amount must be positive with at
// most two decimal places.
func (s *tradeService) AddCash(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := domain.ValidateCashAmount(amount); err != nil {
		return decimal.Zero, err
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return decimal.Zero, fmt.Errorf("add cash: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return decimal.Zero, fmt.Errorf("add cash: transaction controller does not implement DBExecutor")
	}

	user, err := s.userRepo.GetUserByIDForUpdate(ctx, txExecutor, userID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return decimal.Zero, util.ErrUserNotFound
		}
		return decimal.Zero, fmt.Errorf("add cash: failed to lock user %d: %w", userID, err)
	}

	if err := s.userRepo.AdjustCash(ctx, txExecutor, userID, amount); err != nil {
		return decimal.Zero, fmt.Errorf("add cash: failed to credit cash: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return decimal.Zero, fmt.Errorf("add cash: failed to commit transaction: %w", err)
	}

	return user.Cash.Add(amount), nil
}

// CreateUser registers a new ledger account with the standard starting cash.
// Credential handling lives with the external identity provider, not here.
func (s *tradeService) CreateUser(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username must be provided", util.ErrInvalidInput)
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("create user: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("create user: transaction controller does not implement DBExecutor")
	}

	_, err = s.userRepo.GetUserByUsername(ctx, txExecutor, username)
	if err == nil {
		return nil, fmt.Errorf("username '%s' already taken: %w", username, util.ErrDuplicateEntry)
	}
	if !errors.Is(err, util.ErrNotFound) {
		return nil, fmt.Errorf("create user: failed to check existing user: %w", err)
	}

	user := domain.NewUser(username, startingCash)
	if err := s.userRepo.CreateUser(ctx, txExecutor, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("create user: failed to commit transaction: %w", err)
	}

	return user, nil
}
