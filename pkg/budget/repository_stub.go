package budget

import (
	"context"
	"sort"

	"github.com/pocketbook/pocketbook/pkg/category"
	"github.com/pocketbook/pocketbook/pkg/transaction"
)

type RepositoryStub struct {
	nextId int
	data   map[int]Budget
	// FailWith makes every call return this error when set.
	FailWith error
}

func NewStubBudgetRepo() *RepositoryStub {
	return &RepositoryStub{nextId: 0, data: map[int]Budget{}}
}

func (s *RepositoryStub) List(ctx context.Context) ([]Budget, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	budgets := make([]Budget, 0, len(s.data))
	for _, b := range s.data {
		budgets = append(budgets, b)
	}
	sort.Slice(budgets, func(i, j int) bool { return budgets[i].Id < budgets[j].Id })
	return budgets, nil
}

func (s *RepositoryStub) Get(ctx context.Context, id int) (Budget, error) {
	if s.FailWith != nil {
		return Budget{}, s.FailWith
	}
	if b, exists := s.data[id]; exists {
		return b, nil
	}
	return Budget{}, ErrBudgetNotFound
}

func (s *RepositoryStub) Create(ctx context.Context, budget Budget) (Budget, error) {
	if s.FailWith != nil {
		return Budget{}, s.FailWith
	}
	s.nextId++
	budget.Id = s.nextId
	s.data[budget.Id] = budget
	return budget, nil
}

func (s *RepositoryStub) Update(ctx context.Context, budget Budget) (bool, error) {
	if s.FailWith != nil {
		return false, s.FailWith
	}
	if _, exists := s.data[budget.Id]; !exists {
		return false, nil
	}
	s.data[budget.Id] = budget
	return true, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, id int) (bool, error) {
	if s.FailWith != nil {
		return false, s.FailWith
	}
	if _, exists := s.data[id]; !exists {
		return false, nil
	}
	delete(s.data, id)
	return true, nil
}

func (s *RepositoryStub) FindActive(ctx context.Context, name string, txType transaction.Type) ([]Budget, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	found := make([]Budget, 0)
	for _, b := range s.data {
		if b.Active && b.Type == txType && category.Key(b.Category) == category.Key(name) {
			found = append(found, b)
		}
	}
	return found, nil
}

func (s *RepositoryStub) Cleanup() {
	s.data = map[int]Budget{}
	s.FailWith = nil
}
