package budget

import (
	"testing"

	"github.com/pocketbook/pocketbook/internal/test_utils"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryImpl(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres repository test in short mode")
	}
	repo := NewRepository(test_utils.SetupPostgres(t))

	t.Run("should store and find active budget case-insensitively", func(t *testing.T) {
		// given
		created, err := repo.Create(ctx, expenseBudget("Ocio", 100))
		require.NoError(t, err)

		// when
		found, err := repo.FindActive(ctx, "ocio", transaction.Expense)

		// then
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, created.Id, found[0].Id)
	})

	t.Run("should update and delete budget", func(t *testing.T) {
		created, err := repo.Create(ctx, Budget{Type: transaction.Income, Category: "Salary", PlannedAmount: 1000, Active: true})
		require.NoError(t, err)
		created.PlannedAmount = 1200

		updated, err := repo.Update(ctx, created)
		require.NoError(t, err)
		assert.True(t, updated)
		loaded, err := repo.Get(ctx, created.Id)
		require.NoError(t, err)
		assert.Equal(t, 1200.0, loaded.PlannedAmount)

		deleted, err := repo.Delete(ctx, created.Id)
		require.NoError(t, err)
		assert.True(t, deleted)
		_, err = repo.Get(ctx, created.Id)
		assert.ErrorIs(t, err, ErrBudgetNotFound)
	})
}
