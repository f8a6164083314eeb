package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/pocketbook/pocketbook/internal/config"
	"github.com/pocketbook/pocketbook/internal/test_utils"
	"github.com/pocketbook/pocketbook/internal/utils"
	"github.com/pocketbook/pocketbook/pkg/budget"
	"github.com/pocketbook/pocketbook/pkg/investment"
	"github.com/pocketbook/pocketbook/pkg/market"
	"github.com/pocketbook/pocketbook/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*mux.Router, *Dependencies, *market.ClientStub) {
	prices := market.NewClientStub()
	cfg := config.Application{Defaults: config.Defaults{Currency: "EUR", Language: "en"}}
	clock := &utils.MockClock{FixedNow: time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)}
	deps := BuildDependencies(LocalStores(test_utils.SetupTestDB(t)), cfg, prices, clock)
	return NewRouter(deps), deps, prices
}

func do(t *testing.T, router *mux.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestApplication(t *testing.T) {
	t.Run("should track expenses against budgets end to end", func(t *testing.T) {
		router, _, _ := setupApp(t)

		// given
		rr := do(t, router, "POST", "/api/transaction", `{"type":"expense","category":"Food","amount":300,"date":"2024-03-05"}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		rr = do(t, router, "POST", "/api/budget", `{"type":"expense","category":"food","plannedAmount":400}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		// when
		duplicate := do(t, router, "POST", "/api/budget", `{"type":"expense","category":"FOOD","plannedAmount":100}`)
		status := do(t, router, "GET", "/api/budget/status?type=expense", "")

		// then
		assert.Equal(t, http.StatusConflict, duplicate.Code)
		require.Equal(t, http.StatusOK, status.Code)
		var evaluation budget.EvaluationDTO
		require.NoError(t, json.NewDecoder(status.Body).Decode(&evaluation))
		require.Len(t, evaluation.Statuses, 1)
		assert.Equal(t, 300.0, evaluation.Statuses[0].Actual)
		assert.Equal(t, "caution", evaluation.Statuses[0].State)
	})

	t.Run("should summarise the month", func(t *testing.T) {
		router, _, _ := setupApp(t)

		// given
		do(t, router, "POST", "/api/transaction", `{"type":"income","category":"Salary","amount":1000,"date":"2024-03-01"}`)
		do(t, router, "POST", "/api/transaction", `{"type":"expense","category":"Rent","amount":600,"date":"2024-03-02"}`)
		do(t, router, "POST", "/api/transaction", `{"type":"expense","category":"Rent","amount":600,"date":"2024-02-02"}`)

		// when
		rr := do(t, router, "GET", "/api/stats/summary?mode=month", "")

		// then
		require.Equal(t, http.StatusOK, rr.Code)
		var summary stats.StatsSummaryDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&summary))
		assert.Equal(t, "2024-03", summary.Period)
		assert.Equal(t, 400.0, summary.Balance)
	})

	t.Run("should refresh prices when currency changes and value the portfolio", func(t *testing.T) {
		router, deps, prices := setupApp(t)

		// given
		prices.SetQuote("USD", "BTC", market.Quote{Price: 55000})
		rr := do(t, router, "POST", "/api/transaction",
			`{"type":"investment","category":"Crypto","amount":500,"date":"2024-03-02","assetSymbol":"btc","quantity":0.01,"purchasePrice":50000}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		// when
		rr = do(t, router, "PUT", "/api/settings", `{"currency":"USD","language":"en"}`)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		deps.PriceBoard.Wait()
		rr = do(t, router, "GET", "/api/investment/portfolio", "")

		// then
		assert.Contains(t, prices.Calls(), "USD")
		require.Equal(t, http.StatusOK, rr.Code)
		var portfolio investment.PortfolioDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&portfolio))
		assert.Equal(t, "USD", portfolio.Currency)
		assert.InDelta(t, 500.0, portfolio.TotalInvested, 1e-9)
		assert.InDelta(t, 550.0, portfolio.TotalCurrent, 1e-9)
		assert.False(t, portfolio.Degraded)
	})

	t.Run("should answer unknown routes with 404", func(t *testing.T) {
		router, _, _ := setupApp(t)

		rr := do(t, router, "GET", "/api/unknown", "")

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRecoverPanics(t *testing.T) {
	router := mux.NewRouter()
	SetupMiddleware(router)
	router.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "internal error")
}
