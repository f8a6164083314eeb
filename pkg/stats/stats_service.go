package stats

import (
	"context"
	"fmt"

	"github.com/pocketbook/pocketbook/internal/utils"
	"github.com/pocketbook/pocketbook/pkg/budget"
	"github.com/pocketbook/pocketbook/pkg/category"
	"github.com/pocketbook/pocketbook/pkg/period"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type TransactionLister interface {
	List(ctx context.Context, txType transaction.Type) ([]transaction.Transaction, error)
}

type BudgetLister interface {
	List(ctx context.Context) ([]budget.Budget, error)
}

type StatsService interface {
	// GetStats summarises the period chosen by selector, or the whole history
	// when selector is nil.
	GetStats(ctx context.Context, selector *period.Selector) (StatsSummary, error)
}

type StatsServiceImpl struct {
	transactions TransactionLister
	budgets      BudgetLister
	clock        utils.Clock
}

func NewStatsServiceImpl(transactions TransactionLister, budgets BudgetLister, clock utils.Clock) *StatsServiceImpl {
	return &StatsServiceImpl{
		transactions: transactions,
		budgets:      budgets,
		clock:        clock,
	}
}

func (s *StatsServiceImpl) GetStats(ctx context.Context, selector *period.Selector) (StatsSummary, error) {
	var transactions []transaction.Transaction
	var budgets []budget.Budget

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.transactions.List(gctx, "")
		if err != nil {
			return fmt.Errorf("could not load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.List(gctx)
		if err != nil {
			return fmt.Errorf("could not load budgets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return StatsSummary{}, err
	}

	now := s.clock.Now()
	summary := StatsSummary{Period: "all"}
	selected := transactions
	if selector != nil {
		summary.Period = selector.String()
		summary.StartDate, summary.EndDate = selector.Range(now)
		selected = period.Filter(transactions, *selector, now).Records
	}
	log.Tracef("Summarizing %d of %d transactions for %s", len(selected), len(transactions), summary.Period)

	byType := make(map[transaction.Type][]transaction.Transaction, len(transaction.AllTypes))
	for _, t := range selected {
		byType[t.Type] = append(byType[t.Type], t)
	}
	for _, txType := range transaction.AllTypes {
		result := period.Summarize(byType[txType])
		summary.Types = append(summary.Types, TypeStats{
			Type:      txType,
			Total:     result.Total,
			Count:     result.Count,
			Breakdown: category.Breakdown(result.Records),
		})
	}
	summary.Balance = summary.Total(transaction.Income) -
		summary.Total(transaction.Expense) -
		summary.Total(transaction.Saving) -
		summary.Total(transaction.Investment)

	for _, txType := range []transaction.Type{transaction.Expense, transaction.Income} {
		summary.Budgets = append(summary.Budgets, budget.EvaluateCurrentMonth(budgets, txType, transactions, now))
	}
	return summary, nil
}
