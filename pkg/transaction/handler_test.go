package transaction

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/pocketbook/pocketbook/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler(t *testing.T) (*mux.Router, *RepositoryStub) {
	repo := NewStubRepository()
	service := NewService(repo, event_bus.NewEventBus(), clock)
	handler := NewHandler(service, clock)

	router := mux.NewRouter()
	router.HandleFunc("/api/transaction", handler.List).Methods("GET")
	router.HandleFunc("/api/transaction", handler.Create).Methods("POST")
	router.HandleFunc("/api/transaction/{id}", handler.Replace).Methods("PUT")
	router.HandleFunc("/api/transaction/{id}", handler.Delete).Methods("DELETE")
	router.HandleFunc("/api/category", handler.Categories).Methods("GET")
	return router, repo
}

func doRequest(router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Create(t *testing.T) {
	t.Run("should create transaction with missing amount as zero", func(t *testing.T) {
		router, _ := setupHandler(t)

		// when
		w := doRequest(router, http.MethodPost, "/api/transaction", map[string]any{
			"type":     "expense",
			"category": "Food",
			"date":     "2024-03-10",
		})

		// then
		require.Equal(t, http.StatusCreated, w.Code)
		var dto TransactionDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.NotEmpty(t, dto.Id)
		require.NotNil(t, dto.Amount)
		assert.Equal(t, 0.0, *dto.Amount)
		assert.Equal(t, "2024-03-10", dto.Date)
	})

	t.Run("should reject unknown type", func(t *testing.T) {
		router, _ := setupHandler(t)

		w := doRequest(router, http.MethodPost, "/api/transaction", map[string]any{
			"type": "gift", "category": "Food", "amount": 1, "date": "2024-03-10",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should reject invalid date", func(t *testing.T) {
		router, _ := setupHandler(t)

		w := doRequest(router, http.MethodPost, "/api/transaction", map[string]any{
			"type": "expense", "category": "Food", "amount": 1, "date": "yesterday",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_List(t *testing.T) {
	t.Run("should return filtered list with total and count", func(t *testing.T) {
		// given
		router, repo := setupHandler(t)
		_, _ = repo.Create(ctx, Transaction{Type: Expense, Category: "Food", Amount: 10.5, Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)})
		_, _ = repo.Create(ctx, Transaction{Type: Expense, Category: "Food", Amount: 4, Date: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC)})
		_, _ = repo.Create(ctx, Transaction{Type: Income, Category: "Salary", Amount: 100, Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)})

		// when
		w := doRequest(router, http.MethodGet, "/api/transaction?type=expense&mode=month&year=2024&month=3", nil)

		// then
		require.Equal(t, http.StatusOK, w.Code)
		var dto ListDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.Equal(t, 1, dto.Count)
		assert.Equal(t, 10.5, dto.Total)
		assert.Equal(t, "2024-03", dto.Period)
	})

	t.Run("should list every period when mode is absent", func(t *testing.T) {
		router, repo := setupHandler(t)
		_, _ = repo.Create(ctx, Transaction{Type: Expense, Category: "Food", Amount: 1, Date: time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC)})

		w := doRequest(router, http.MethodGet, "/api/transaction", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var dto ListDTO
		require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
		assert.Equal(t, 1, dto.Count)
		assert.Equal(t, "all", dto.Period)
	})

	t.Run("should return 500 when store fails", func(t *testing.T) {
		router, repo := setupHandler(t)
		repo.FailWith = errors.New("store unavailable")

		w := doRequest(router, http.MethodGet, "/api/transaction?mode=day", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "could not load transactions")
	})

	t.Run("should reject invalid period", func(t *testing.T) {
		router, _ := setupHandler(t)

		w := doRequest(router, http.MethodGet, "/api/transaction?mode=month&month=0", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_ReplaceAndDelete(t *testing.T) {
	t.Run("should replace existing transaction", func(t *testing.T) {
		router, repo := setupHandler(t)
		created, _ := repo.Create(ctx, Transaction{Type: Expense, Category: "Food", Amount: 1, Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)})

		w := doRequest(router, http.MethodPut, "/api/transaction/"+created.Id.String(), map[string]any{
			"type": "expense", "category": "Food", "amount": 3, "date": "2024-03-02",
		})

		require.Equal(t, http.StatusOK, w.Code)
		loaded, err := repo.Get(ctx, created.Id)
		require.NoError(t, err)
		assert.Equal(t, 3.0, loaded.Amount)
	})

	t.Run("should return 404 for unknown transaction", func(t *testing.T) {
		router, _ := setupHandler(t)

		w := doRequest(router, http.MethodDelete, "/api/transaction/"+uuid.NewString(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("should delete transaction", func(t *testing.T) {
		router, repo := setupHandler(t)
		created, _ := repo.Create(ctx, Transaction{Type: Expense, Category: "Food", Amount: 1, Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)})

		w := doRequest(router, http.MethodDelete, "/api/transaction/"+created.Id.String(), nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("should reject malformed id", func(t *testing.T) {
		router, _ := setupHandler(t)

		w := doRequest(router, http.MethodDelete, "/api/transaction/42", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Categories(t *testing.T) {
	t.Run("should list options for type", func(t *testing.T) {
		router, _ := setupHandler(t)

		w := doRequest(router, http.MethodGet, "/api/category?type=saving", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var options []string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&options))
		assert.Contains(t, options, "Emergency fund")
	})
}
