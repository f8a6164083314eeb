package stats

import (
	"time"

	"github.com/pocketbook/pocketbook/pkg/budget"
	"github.com/pocketbook/pocketbook/pkg/category"
	"github.com/pocketbook/pocketbook/pkg/transaction"
)

type TypeStats struct {
	Type      transaction.Type
	Total     float64
	Count     int
	Breakdown []category.Share
}

// StatsSummary is the dashboard view of one period.
type StatsSummary struct {
	// Period is the selector label, "all" for the whole history.
	Period    string
	StartDate time.Time
	EndDate   time.Time
	Types     []TypeStats
	// Balance is income minus expenses, savings and investments.
	Balance float64
	// Budgets are always evaluated against the current calendar month.
	Budgets []budget.Evaluation
}

func (s StatsSummary) Total(txType transaction.Type) float64 {
	for _, t := range s.Types {
		if t.Type == txType {
			return t.Total
		}
	}
	return 0
}
