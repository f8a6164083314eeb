package budget

import (
	"context"
	"fmt"

	"github.com/pocketbook/pocketbook/internal/event_bus"
	"github.com/pocketbook/pocketbook/internal/utils"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// TransactionLister is the read side of the transaction store.
type TransactionLister interface {
	List(ctx context.Context, txType transaction.Type) ([]transaction.Transaction, error)
}

type Service interface {
	List(ctx context.Context) ([]Budget, error)
	Create(ctx context.Context, budget Budget) (Budget, error)
	Update(ctx context.Context, budget Budget) (Budget, error)
	Delete(ctx context.Context, id int) error
	Status(ctx context.Context, txType transaction.Type) (Evaluation, error)
}

type ServiceImpl struct {
	repo         Repository
	transactions TransactionLister
	eventBus     *event_bus.EventBus
	clock        utils.Clock
}

func NewService(repo Repository, transactions TransactionLister, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, transactions: transactions, eventBus: eventBus, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Budget, error) {
	return s.repo.List(ctx)
}

// Create stores a new budget. It fails with ErrDuplicateCategory when an active
// budget of the same type already covers the category.
func (s *ServiceImpl) Create(ctx context.Context, budget Budget) (Budget, error) {
	if err := budget.Validate(); err != nil {
		return Budget{}, err
	}
	budget.Id = 0
	if err := s.checkDuplicate(ctx, budget); err != nil {
		return Budget{}, err
	}
	created, err := s.repo.Create(ctx, budget)
	if err != nil {
		return Budget{}, err
	}
	if err := s.publish(ctx, event_bus.BudgetCreated, created); err != nil {
		return Budget{}, err
	}
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, budget Budget) (Budget, error) {
	if err := budget.Validate(); err != nil {
		return Budget{}, err
	}
	if err := s.checkDuplicate(ctx, budget); err != nil {
		return Budget{}, err
	}
	updated, err := s.repo.Update(ctx, budget)
	if err != nil {
		return Budget{}, err
	}
	if !updated {
		log.Warnf("budget not updated, probably because it does not exist (%d)", budget.Id)
		return Budget{}, ErrBudgetNotFound
	}
	return budget, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("budget not deleted, probably because it does not exist (%d)", id)
		return ErrBudgetNotFound
	}
	return s.publish(ctx, event_bus.BudgetDeleted, existing)
}

// Status evaluates the budgets of txType against the current calendar month.
// Budgets and transactions are loaded concurrently; if either load fails
// nothing is evaluated.
func (s *ServiceImpl) Status(ctx context.Context, txType transaction.Type) (Evaluation, error) {
	var budgets []Budget
	var transactions []transaction.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.repo.List(gctx)
		if err != nil {
			return fmt.Errorf("could not load budgets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transactions, err = s.transactions.List(gctx, txType)
		if err != nil {
			return fmt.Errorf("could not load transactions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Evaluation{}, err
	}
	return EvaluateCurrentMonth(budgets, txType, transactions, s.clock.Now()), nil
}

func (s *ServiceImpl) checkDuplicate(ctx context.Context, budget Budget) error {
	if !budget.Active {
		return nil
	}
	existing, err := s.repo.FindActive(ctx, budget.Category, budget.Type)
	if err != nil {
		return err
	}
	for _, other := range existing {
		if budget.Conflicts(other) {
			return fmt.Errorf("%w: %s %q", ErrDuplicateCategory, budget.Type, budget.Category)
		}
	}
	return nil
}

func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, b Budget) error {
	if s.eventBus == nil {
		return nil
	}
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, event_bus.BudgetChanged{
		Id:            b.Id,
		Type:          string(b.Type),
		Category:      b.Category,
		PlannedAmount: b.PlannedAmount,
	}))
	if err != nil {
		log.Errorf("failed to publish %s event: %v", eventType, err)
		return fmt.Errorf("budget stored but subscribers failed: %w", err)
	}
	return nil
}
