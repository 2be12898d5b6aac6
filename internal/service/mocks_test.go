// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"stockfolio/internal/domain"
	"stockfolio/internal/repository"
	"stockfolio/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, q repository.DBExecutor, username string) (*domain.User, error) {
	args := m.Called(ctx, q, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) AdjustCash(ctx context.Context, q repository.DBExecutor, userID int64, delta decimal.Decimal) error {
	args := m.Called(ctx, q, userID, delta)
	return args.Error(0)
}

// MockHoldingRepository is a mock implementation of repository.HoldingRepository.
type MockHoldingRepository struct {
	mock.Mock
}

func (m *MockHoldingRepository) GetHoldingForUpdate(ctx context.Context, q repository.DBExecutor, userID int64, symbol string) (*domain.Holding, error) {
	args := m.Called(ctx, q, userID, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Holding), args.Error(1)
}

func (m *MockHoldingRepository) ListHoldingsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Holding, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Holding), args.Error(1)
}

func (m *MockHoldingRepository) AddShares(ctx context.Context, q repository.DBExecutor, userID int64, symbol string, shares int64) (int64, error) {
	args := m.Called(ctx, q, userID, symbol, shares)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHoldingRepository) RemoveShares(ctx context.Context, q repository.DBExecutor, userID int64, symbol string, shares int64) (int64, error) {
	args := m.Called(ctx, q, userID, symbol, shares)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHoldingRepository) DeleteHolding(ctx context.Context, q repository.DBExecutor, userID int64, symbol string) error {
	args := m.Called(ctx, q, userID, symbol)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) AppendTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

// MockQuoteProvider is a mock implementation of quote.Provider.
type MockQuoteProvider struct {
	mock.Mock
}

func (m *MockQuoteProvider) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quote), args.Error(1)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It embeds MockDBExecutor so it also satisfies repository.DBExecutor, the
// way *sqlx.Tx does in production.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// tradeMocks bundles the mocks behind a TradeService under test.
type tradeMocks struct {
	userRepo        *MockUserRepository
	holdingRepo     *MockHoldingRepository
	transactionRepo *MockTransactionRepository
	quotes          *MockQuoteProvider
	txController    *MockTxController
}

// newTestTradeService wires a TradeService to fresh mocks, with transaction
// control routed to the mock controller.
func newTestTradeService() (TradeService, *tradeMocks) {
	m := &tradeMocks{
		userRepo:        new(MockUserRepository),
		holdingRepo:     new(MockHoldingRepository),
		transactionRepo: new(MockTransactionRepository),
		quotes:          new(MockQuoteProvider),
		txController:    new(MockTxController),
	}
	// Rollback always runs via defer, even after a successful commit.
	m.txController.On("Rollback").Return(nil).Maybe()

	svc := NewTradeService(
		new(MockDBBeginner),
		new(MockDBExecutor),
		m.userRepo,
		m.holdingRepo,
		m.transactionRepo,
		m.quotes,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return m.txController, nil
		},
		func(tx db.TxController) error {
			return m.txController.Commit()
		},
		func(tx db.TxController) {
			_ = m.txController.Rollback()
		},
	)
	return svc, m
}

// assertNoMutations verifies a rejected operation produced zero side effects.
func (m *tradeMocks) assertNoMutations(t *testing.T) {
	m.userRepo.AssertNotCalled(t, "AdjustCash")
	m.transactionRepo.AssertNotCalled(t, "AppendTransaction")
	m.holdingRepo.AssertNotCalled(t, "AddShares")
	m.holdingRepo.AssertNotCalled(t, "RemoveShares")
	m.holdingRepo.AssertNotCalled(t, "DeleteHolding")
	m.txController.AssertNotCalled(t, "Commit")
}
