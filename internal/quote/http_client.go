// internal/quote/http_client.go
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockfolio/internal/domain"
	"stockfolio/internal/util"
)

// DefaultTimeout bounds every quote lookup so a slow provider surfaces as
// ErrQuoteUnavailable instead of hanging the trade.
const DefaultTimeout = 5 * time.Second

// Config holds quote provider client configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPClient fetches quotes from an external HTTP quote API.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPClient creates a new HTTPClient for the configured quote API.
func NewHTTPClient(cfg Config) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
	}
}

// quoteResponse mirrors the provider's JSON payload.
type quoteResponse struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// Lookup fetches the current quote for a symbol. Any failure mode (network
// error, non-200 status, malformed body, non-positive price) is reported as
// util.ErrQuoteUnavailable so callers need a single check.
func (c *HTTPClient) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol must be provided", util.ErrInvalidInput)
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	if c.apiKey != "" {
		params.Set("token", c.apiKey)
	}
	endpoint := fmt.Sprintf("%s/quote?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build request for %s", util.ErrQuoteUnavailable, symbol)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: provider unreachable for %s: %v", util.ErrQuoteUnavailable, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned %s for %s", util.ErrQuoteUnavailable, resp.Status, symbol)
	}

	var payload quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: malformed provider response for %s: %v", util.ErrQuoteUnavailable, symbol, err)
	}
	if payload.Price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: provider returned non-positive price for %s", util.ErrQuoteUnavailable, symbol)
	}

	quoted := payload.Symbol
	if quoted == "" {
		quoted = symbol
	}
	return &domain.Quote{
		Symbol: strings.ToUpper(quoted),
		Name:   payload.Name,
		Price:  payload.Price.Round(2),
	}, nil
}
