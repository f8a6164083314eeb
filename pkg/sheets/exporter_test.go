package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pocketbook/pocketbook/internal/config"
	"github.com/pocketbook/pocketbook/pkg/budget"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type statusStub struct {
	evaluations map[transaction.Type]budget.Evaluation
	err         error
}

func (s statusStub) Status(ctx context.Context, txType transaction.Type) (budget.Evaluation, error) {
	if s.err != nil {
		return budget.Evaluation{}, s.err
	}
	e, ok := s.evaluations[txType]
	if !ok {
		return budget.Evaluation{Type: txType}, nil
	}
	return e, nil
}

var expenses = budget.Evaluate(
	[]budget.Budget{{Id: 1, Type: transaction.Expense, Category: "Food", PlannedAmount: 400, Active: true}},
	transaction.Expense,
	map[string]float64{"food": 300},
)

func setupExporter(t *testing.T, handler http.HandlerFunc, source StatusSource) *Exporter {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	service, err := NewSheetsService(context.Background(), config.Sheets{},
		option.WithEndpoint(server.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)
	exporter, err := NewExporter(service, config.Sheets{SpreadsheetId: "sheet-1", Range: "Budgets!A1"}, source)
	require.NoError(t, err)
	return exporter
}

func TestExporter_Export(t *testing.T) {
	t.Run("should write header, statuses and totals", func(t *testing.T) {
		// given
		var received sheets.ValueRange
		var path string
		exporter := setupExporter(t, func(w http.ResponseWriter, r *http.Request) {
			path = r.URL.Path
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(sheets.UpdateValuesResponse{UpdatedRows: int64(len(received.Values))})
		}, statusStub{evaluations: map[transaction.Type]budget.Evaluation{transaction.Expense: expenses}})

		// when
		rows, err := exporter.Export(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, 3, rows)
		assert.True(t, strings.HasPrefix(path, "/v4/spreadsheets/sheet-1/values/"))
		require.Len(t, received.Values, 3)
		assert.Equal(t, "Type", received.Values[0][0])
		assert.Equal(t, []any{"expense", "Food", 400.0, 300.0, 75.0, "caution"}, received.Values[1])
		assert.Equal(t, "Total", received.Values[2][1])
	})

	t.Run("should not write when evaluation fails", func(t *testing.T) {
		called := false
		exporter := setupExporter(t, func(w http.ResponseWriter, r *http.Request) {
			called = true
		}, statusStub{err: errors.New("could not load budgets")})

		_, err := exporter.Export(context.Background())

		assert.Error(t, err)
		assert.False(t, called)
	})

	t.Run("should surface api errors", func(t *testing.T) {
		exporter := setupExporter(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
		}, statusStub{})

		_, err := exporter.Export(context.Background())

		assert.Error(t, err)
	})
}

func TestNewExporter(t *testing.T) {
	t.Run("should require spreadsheet id", func(t *testing.T) {
		_, err := NewExporter(nil, config.Sheets{}, statusStub{})

		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("should require credentials without explicit options", func(t *testing.T) {
		_, err := NewSheetsService(context.Background(), config.Sheets{})

		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
