package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoinGeckoClient_GetPrices(t *testing.T) {
	t.Run("should map coin ids to symbols", func(t *testing.T) {
		// given
		var requestedQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/simple/price", r.URL.Path)
			requestedQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"bitcoin":{"eur":55000,"eur_24h_change":2.5},"ethereum":{"eur":3000}}`))
		}))
		defer server.Close()
		client := NewCoinGeckoClient(server.URL+"/", time.Second)

		// when
		quotes, err := client.GetPrices(context.Background(), "EUR")

		// then
		require.NoError(t, err)
		assert.Equal(t, Quote{Price: 55000, Change24h: 2.5}, quotes["BTC"])
		assert.Equal(t, Quote{Price: 3000}, quotes["ETH"])
		assert.NotContains(t, quotes, "SOL")
		assert.Contains(t, requestedQuery, "vs_currencies=eur")
		assert.True(t, strings.Contains(requestedQuery, "include_24hr_change=true"))
	})

	t.Run("should fail on non-OK status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		_, err := NewCoinGeckoClient(server.URL, time.Second).GetPrices(context.Background(), "usd")

		assert.ErrorContains(t, err, "429")
	})

	t.Run("should report unsupported currency", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"bitcoin":{}}`))
		}))
		defer server.Close()

		_, err := NewCoinGeckoClient(server.URL, time.Second).GetPrices(context.Background(), "xyz")

		assert.True(t, errors.Is(err, ErrUnsupportedCurrency))
	})

	t.Run("should reject empty currency without calling the API", func(t *testing.T) {
		_, err := NewCoinGeckoClient("http://127.0.0.1:1", time.Second).GetPrices(context.Background(), " ")

		assert.ErrorIs(t, err, ErrUnsupportedCurrency)
	})
}

func TestBoard(t *testing.T) {
	t.Run("should keep the latest quotes per currency", func(t *testing.T) {
		// given
		stub := NewClientStub()
		stub.SetQuote("eur", "btc", Quote{Price: 50000})
		board := NewBoard(stub)

		// when
		require.NoError(t, board.Refresh(context.Background(), "eur"))
		stub.SetQuote("eur", "btc", Quote{Price: 51000})
		board.RefreshAsync("EUR")
		board.Wait()

		// then
		quotes, ok := board.Quotes("EUR")
		assert.True(t, ok)
		assert.Equal(t, 51000.0, quotes["BTC"].Price)
		assert.False(t, board.FetchedAt("eur").IsZero())
		assert.Equal(t, []string{"EUR", "EUR"}, stub.Calls())
	})

	t.Run("should keep previous quotes when a refresh fails", func(t *testing.T) {
		stub := NewClientStub()
		stub.SetQuote("USD", "ETH", Quote{Price: 3000})
		board := NewBoard(stub)
		require.NoError(t, board.Refresh(context.Background(), "USD"))

		stub.SetError(errors.New("rate limited"))
		err := board.Refresh(context.Background(), "USD")

		assert.Error(t, err)
		assert.Error(t, board.LastError("usd"))
		quotes, ok := board.Quotes("USD")
		assert.True(t, ok)
		assert.Equal(t, 3000.0, quotes["ETH"].Price)
	})

	t.Run("should report missing currency", func(t *testing.T) {
		board := NewBoard(NewClientStub())

		quotes, ok := board.Quotes("GBP")

		assert.False(t, ok)
		assert.Empty(t, quotes)
	})
}
