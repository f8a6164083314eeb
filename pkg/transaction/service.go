package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pocketbook/pocketbook/internal/event_bus"
	"github.com/pocketbook/pocketbook/internal/utils"
	"github.com/pocketbook/pocketbook/pkg/category"
	"github.com/pocketbook/pocketbook/pkg/period"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context, txType Type) ([]Transaction, error)
	ListForPeriod(ctx context.Context, txType Type, selector period.Selector) (period.Result[Transaction], error)
	ListAll(ctx context.Context, txType Type) (period.Result[Transaction], error)
	Get(ctx context.Context, id uuid.UUID) (Transaction, error)
	Create(ctx context.Context, transaction Transaction) (Transaction, error)
	Replace(ctx context.Context, transaction Transaction) (Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CategoryOptions(ctx context.Context, txType Type) ([]string, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
	clock    utils.Clock
}

func NewService(repo Repository, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, eventBus: eventBus, clock: clock}
}

func (s *ServiceImpl) List(ctx context.Context, txType Type) ([]Transaction, error) {
	return s.repo.List(ctx, txType)
}

// ListForPeriod returns the transactions of txType (all types when empty) whose
// date falls into the selected period, relative to the service clock.
func (s *ServiceImpl) ListForPeriod(ctx context.Context, txType Type, selector period.Selector) (period.Result[Transaction], error) {
	transactions, err := s.repo.List(ctx, txType)
	if err != nil {
		return period.Result[Transaction]{}, err
	}
	return period.Filter(transactions, selector, s.clock.Now()), nil
}

func (s *ServiceImpl) ListAll(ctx context.Context, txType Type) (period.Result[Transaction], error) {
	transactions, err := s.repo.List(ctx, txType)
	if err != nil {
		return period.Result[Transaction]{}, err
	}
	return period.Summarize(transactions), nil
}

func (s *ServiceImpl) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	return s.repo.Get(ctx, id)
}

func (s *ServiceImpl) Create(ctx context.Context, transaction Transaction) (Transaction, error) {
	if err := transaction.Validate(); err != nil {
		return Transaction{}, err
	}
	created, err := s.repo.Create(ctx, transaction)
	if err != nil {
		return Transaction{}, err
	}
	if err := s.publish(ctx, event_bus.TransactionCreated, created); err != nil {
		return Transaction{}, err
	}
	return created, nil
}

func (s *ServiceImpl) Replace(ctx context.Context, transaction Transaction) (Transaction, error) {
	if err := transaction.Validate(); err != nil {
		return Transaction{}, err
	}
	replaced, err := s.repo.Replace(ctx, transaction)
	if err != nil {
		return Transaction{}, err
	}
	if !replaced {
		return Transaction{}, ErrTransactionNotFound
	}
	if err := s.publish(ctx, event_bus.TransactionReplaced, transaction); err != nil {
		return Transaction{}, err
	}
	return transaction, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		log.Warnf("transaction %s not deleted, probably removed concurrently", id)
		return ErrTransactionNotFound
	}
	return s.publish(ctx, event_bus.TransactionDeleted, existing)
}

// CategoryOptions returns the default categories of txType followed by the
// custom ones already used by stored transactions of that type.
func (s *ServiceImpl) CategoryOptions(ctx context.Context, txType Type) ([]string, error) {
	transactions, err := s.repo.List(ctx, txType)
	if err != nil {
		return nil, err
	}
	existing := make([]string, 0, len(transactions))
	for _, t := range transactions {
		existing = append(existing, t.Category)
	}
	return category.Options(string(txType), existing), nil
}

// The store is already updated when publishing fails; subscribers catch up on
// the next change of the same record.
func (s *ServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, t Transaction) error {
	if s.eventBus == nil {
		return nil
	}
	err := s.eventBus.Publish(event_bus.NewEvent(ctx, eventType, event_bus.TransactionChanged{
		Id:       t.Id,
		Type:     string(t.Type),
		Category: t.Category,
		Amount:   t.Amount,
		Date:     t.Date,
	}))
	if err != nil {
		log.Errorf("failed to publish %s event: %v", eventType, err)
		return fmt.Errorf("transaction stored but subscribers failed: %w", err)
	}
	return nil
}
