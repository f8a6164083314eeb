package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pocketbook/pocketbook/internal/utils"
	"github.com/pocketbook/pocketbook/pkg/budget"
	"github.com/pocketbook/pocketbook/pkg/period"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()
var now = time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)
var clock = &utils.MockClock{FixedNow: now}
var transactionRepoStub = transaction.NewStubRepository()
var budgetRepoStub = budget.NewStubBudgetRepo()

func setup(t *testing.T) (StatsService, func()) {
	service := NewStatsServiceImpl(transactionRepoStub, budgetRepoStub, clock)
	return service, func() {
		t.Log("Teardown after test")
		transactionRepoStub.Cleanup()
		budgetRepoStub.Cleanup()
	}
}

func date(month time.Month, day int) time.Time {
	return time.Date(2024, month, day, 0, 0, 0, 0, time.UTC)
}

func givenTransaction(t *testing.T, txType transaction.Type, category string, amount float64, on time.Time) {
	_, err := transactionRepoStub.Create(ctx, transaction.Transaction{Type: txType, Category: category, Amount: amount, Date: on})
	require.NoError(t, err)
}

func givenMonth(t *testing.T) {
	givenTransaction(t, transaction.Income, "Salary", 3000, date(time.March, 1))
	givenTransaction(t, transaction.Expense, "Food", 200, date(time.March, 5))
	givenTransaction(t, transaction.Expense, "food", 100, date(time.March, 10))
	givenTransaction(t, transaction.Saving, "Emergency fund", 500, date(time.March, 2))
	givenTransaction(t, transaction.Investment, "Crypto", 300, date(time.March, 3))
	givenTransaction(t, transaction.Expense, "Rent", 900, date(time.February, 1))
	_, err := budgetRepoStub.Create(ctx, budget.Budget{Type: transaction.Expense, Category: "FOOD", PlannedAmount: 400, Active: true})
	require.NoError(t, err)
}

func TestStatsServiceImpl_GetStats(t *testing.T) {
	t.Run("should summarise the selected month", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// given
		givenMonth(t)
		selector := period.CurrentMonth(now)

		// when
		summary, err := service.GetStats(ctx, &selector)

		// then
		require.NoError(t, err)
		assert.Equal(t, "2024-03", summary.Period)
		assert.Equal(t, date(time.March, 1), summary.StartDate)
		assert.Equal(t, 3000.0, summary.Total(transaction.Income))
		assert.Equal(t, 300.0, summary.Total(transaction.Expense))
		assert.Equal(t, 1900.0, summary.Balance)
		require.Len(t, summary.Types, 4)
		expense := summary.Types[0]
		assert.Equal(t, transaction.Expense, expense.Type)
		assert.Equal(t, 2, expense.Count)
		require.Len(t, expense.Breakdown, 1)
		assert.Equal(t, "Food", expense.Breakdown[0].Category)
		assert.Equal(t, 100.0, expense.Breakdown[0].Percentage)
	})

	t.Run("should evaluate budgets against current month whatever the period", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		// given
		givenMonth(t)
		february := period.MonthOf(2024, time.February)

		// when
		summary, err := service.GetStats(ctx, &february)

		// then
		require.NoError(t, err)
		assert.Equal(t, 900.0, summary.Total(transaction.Expense))
		assert.Equal(t, -900.0, summary.Balance)
		require.Len(t, summary.Budgets, 2)
		expenses := summary.Budgets[0]
		require.Len(t, expenses.Statuses, 1)
		assert.Equal(t, 300.0, expenses.Statuses[0].Actual)
		assert.Equal(t, budget.StateCaution, expenses.Statuses[0].State)
		assert.Empty(t, summary.Budgets[1].Statuses)
	})

	t.Run("should summarise whole history without selector", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		givenMonth(t)

		summary, err := service.GetStats(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, "all", summary.Period)
		assert.True(t, summary.StartDate.IsZero())
		assert.Equal(t, 1200.0, summary.Total(transaction.Expense))
		assert.Equal(t, 1000.0, summary.Balance)
	})

	t.Run("should fail without evaluating when a load fails", func(t *testing.T) {
		service, teardown := setup(t)
		defer teardown()

		budgetRepoStub.FailWith = errors.New("connection refused")

		_, err := service.GetStats(ctx, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not load budgets")
	})
}
