// internal/quote/http_client_test.go
package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockfolio/internal/util"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func newTestClient(t *testing.T, handlerFn http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handlerFn)
	t.Cleanup(server.Close)
	client := NewHTTPClient(Config{BaseURL: server.URL, APIKey: "test-key", Timeout: 2 * time.Second})
	return client, server
}

func TestLookupSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "ACME", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol": "ACME", "name": "Acme Corp", "price": 50.00}`))
	})

	quoted, err := client.Lookup(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "ACME", quoted.Symbol)
	assert.Equal(t, "Acme Corp", quoted.Name)
	assert.True(t, quoted.Price.Equal(decimalFromString(t, "50.00")))
}

func TestLookupUnknownSymbol(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Unknown symbol", http.StatusNotFound)
	})

	_, err := client.Lookup(context.Background(), "NOPE")
	assert.ErrorIs(t, err, util.ErrQuoteUnavailable)
}

func TestLookupMalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	})

	_, err := client.Lookup(context.Background(), "ACME")
	assert.ErrorIs(t, err, util.ErrQuoteUnavailable)
}

func TestLookupNonPositivePrice(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbol": "ACME", "name": "Acme Corp", "price": 0}`))
	})

	_, err := client.Lookup(context.Background(), "ACME")
	assert.ErrorIs(t, err, util.ErrQuoteUnavailable)
}

func TestLookupProviderUnreachable(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	server.Close()

	_, err := client.Lookup(context.Background(), "ACME")
	assert.ErrorIs(t, err, util.ErrQuoteUnavailable)
}

func TestLookupEmptySymbol(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider should not be called for an empty symbol")
	})

	_, err := client.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}
