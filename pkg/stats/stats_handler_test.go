package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler(t *testing.T) (*mux.Router, func()) {
	service, teardown := setup(t)
	handler := NewStatsHandler(service, NewCsvStatsRenderer(), clock)
	router := mux.NewRouter()
	router.HandleFunc("/api/stats/summary", handler.GetStats).Methods("GET")
	router.HandleFunc("/api/stats/summary/csv", handler.GetStatsCsv).Methods("GET")
	return router, teardown
}

func TestStatsHandler_GetStats(t *testing.T) {
	t.Run("should return json summary for month", func(t *testing.T) {
		router, teardown := setupHandler(t)
		defer teardown()

		// given
		givenMonth(t)

		// when
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/stats/summary?mode=month&year=2024&month=2", nil))

		// then
		require.Equal(t, http.StatusOK, rr.Code)
		var dto StatsSummaryDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&dto))
		assert.Equal(t, "2024-02", dto.Period)
		assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), dto.StartDate.UTC())
		assert.Equal(t, -900.0, dto.Balance)
		assert.Len(t, dto.Budgets, 2)
	})

	t.Run("should render csv when asked through accept header", func(t *testing.T) {
		router, teardown := setupHandler(t)
		defer teardown()

		givenTransaction(t, transaction.Expense, "Food", 10, now)
		req := httptest.NewRequest("GET", "/api/stats/summary", nil)
		req.Header.Set("Accept", "text/csv")

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rr.Body.String(), "Section,Type,Category"))
		assert.Contains(t, rr.Body.String(), "Category,expense,Food,10.00,100.00,")
	})

	t.Run("should render csv on csv route", func(t *testing.T) {
		router, teardown := setupHandler(t)
		defer teardown()

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/stats/summary/csv?mode=year", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Balance,,,0.00,,")
	})

	t.Run("should reject invalid period", func(t *testing.T) {
		router, teardown := setupHandler(t)
		defer teardown()

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/stats/summary?mode=fortnight", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid period")
	})
}
