package budget

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pocketbook/pocketbook/pkg/category"
	"github.com/pocketbook/pocketbook/pkg/transaction"
)

var ErrBudgetNotFound = errors.New("budget not found")
var ErrDuplicateCategory = errors.New("an active budget for this category already exists")
var ErrInvalidBudget = errors.New("invalid budget")

// Budget is a monthly ceiling (expense) or target (income) for one category.
type Budget struct {
	Id            int
	Type          transaction.Type
	Category      string
	PlannedAmount float64
	Active        bool
}

func (b Budget) Validate() error {
	if b.Type != transaction.Expense && b.Type != transaction.Income {
		return fmt.Errorf("%w: type must be expense or income, got %q", ErrInvalidBudget, b.Type)
	}
	if strings.TrimSpace(b.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidBudget)
	}
	if math.IsNaN(b.PlannedAmount) || math.IsInf(b.PlannedAmount, 0) || b.PlannedAmount <= 0 {
		return fmt.Errorf("%w: planned amount must be positive", ErrInvalidBudget)
	}
	return nil
}

// Conflicts reports whether b and other cannot both be active.
func (b Budget) Conflicts(other Budget) bool {
	return b.Id != other.Id &&
		b.Active && other.Active &&
		b.Type == other.Type &&
		category.Key(b.Category) == category.Key(other.Category)
}
