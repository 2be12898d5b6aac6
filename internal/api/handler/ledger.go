// internal/api/handler/ledger.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"stockfolio/internal/api/types"
	"stockfolio/internal/domain"
	"stockfolio/internal/service"
	"stockfolio/internal/util"
)

// DefaultTimeout is the per-request timeout applied by the router.
const DefaultTimeout = 30 * time.Second

// defaultHistoryLimit caps a history page when the caller gives no limit.
const defaultHistoryLimit = 100

// LedgerHandler handles HTTP requests for trades and portfolio views.
type LedgerHandler struct {
	trades    service.TradeService
	portfolio service.PortfolioService
	logger    *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(trades service.TradeService, portfolio service.PortfolioService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		trades:    trades,
		portfolio: portfolio,
		logger:    logger,
	}
}

// Helper function to send JSON responses.
func (h *LedgerHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h *LedgerHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrUserNotFound), util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired // 402 Payment Required
		message = "Insufficient funds"
	case util.IsError(err, util.ErrNoSuchHolding):
		statusCode = http.StatusConflict
		message = "No shares of this symbol held"
	case util.IsError(err, util.ErrInsufficientShares):
		statusCode = http.StatusConflict
		message = "Not enough shares to sell"
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		message = "Username already taken"
	case util.IsError(err, util.ErrQuoteUnavailable):
		statusCode = http.StatusBadGateway
		message = "Quote unavailable"
	case util.IsError(err, util.ErrStorageUnavailable):
		statusCode = http.StatusServiceUnavailable
		message = "Storage unavailable"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, map[string]string{"error": message})
}

// userIDParam extracts and parses the {userID} URL parameter.
func userIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "userID")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID < 1 {
		return 0, util.ErrInvalidInput
	}
	return userID, nil
}

// TradeRequest represents the request body for buy and sell.
// Shares arrives as a string so malformed counts ("2.5", "abc") can be
// rejected with a precise validation message instead of a JSON decode error.
type TradeRequest struct {
	Symbol string `json:"symbol"`
	Shares string `json:"shares"`
}

// Buy handles the buy-shares request.
// POST /users/{userID}/buy
func (h *LedgerHandler) Buy(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	shares, err := domain.ParseShareCount(req.Shares)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	result, err := h.trades.Buy(r.Context(), userID, req.Symbol, shares)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Bought",
		"cash":           result.Cash,
		"holding_shares": result.HoldingShares,
		"transaction_id": result.Transaction.ID,
	})
}

// Sell handles the sell-shares request.
// POST /users/{userID}/sell
func (h *LedgerHandler) Sell(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	shares, err := domain.ParseShareCount(req.Shares)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	result, err := h.trades.Sell(r.Context(), userID, req.Symbol, shares)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Sold",
		"cash":           result.Cash,
		"holding_shares": result.HoldingShares,
		"transaction_id": result.Transaction.ID,
	})
}

// CreateUserRequest represents the request body for user creation.
type CreateUserRequest struct {
	Username string `json:"username"`
}

// CreateUser handles ledger-account creation.
// POST /users
func (h *LedgerHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	user, err := h.trades.CreateUser(r.Context(), req.Username)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
		"cash":     user.Cash,
	})
}

// AddCashRequest represents the request body for a cash top-up.
type AddCashRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// AddCash handles the cash top-up request.
// POST /users/{userID}/cash
func (h *LedgerHandler) AddCash(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req AddCashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	cash, err := h.trades.AddCash(r.Context(), userID, req.Amount)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Cash added",
		"cash":    cash,
	})
}

// GetPortfolio handles the valued-holdings view.
// GET /users/{userID}/portfolio
func (h *LedgerHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	view, err := h.portfolio.GetHoldings(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, view)
}

// GetCashBalance handles the cash balance request.
// GET /users/{userID}/cash
func (h *LedgerHandler) GetCashBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	cash, err := h.portfolio.GetCashBalance(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{"cash": cash})
}

// GetHistory handles the transaction history request.
// GET /users/{userID}/history?limit=&offset=
func (h *LedgerHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	transactions, totalCount, err := h.portfolio.GetHistory(r.Context(), userID, limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.Transaction]{
		Data:       transactions,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}

// GetQuote handles the quote lookup request.
// GET /quotes/{symbol}
func (h *LedgerHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	quoted, err := h.portfolio.GetQuote(r.Context(), symbol)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, quoted)
}
