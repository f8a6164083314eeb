package transaction

import (
	"context"

	"github.com/google/uuid"
)

type RepositoryStub struct {
	transactions []Transaction
	// FailWith makes every call return this error when set.
	FailWith error
}

func NewStubRepository() *RepositoryStub {
	return &RepositoryStub{transactions: []Transaction{}}
}

func (s *RepositoryStub) List(ctx context.Context, txType Type) ([]Transaction, error) {
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	result := make([]Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if txType == "" || t.Type == txType {
			result = append(result, t)
		}
	}
	return result, nil
}

func (s *RepositoryStub) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	if s.FailWith != nil {
		return Transaction{}, s.FailWith
	}
	for _, t := range s.transactions {
		if t.Id == id {
			return t, nil
		}
	}
	return Transaction{}, ErrTransactionNotFound
}

func (s *RepositoryStub) Create(ctx context.Context, transaction Transaction) (Transaction, error) {
	if s.FailWith != nil {
		return Transaction{}, s.FailWith
	}
	if transaction.Id == uuid.Nil {
		transaction.Id = uuid.New()
	}
	s.transactions = append(s.transactions, transaction)
	return transaction, nil
}

func (s *RepositoryStub) Replace(ctx context.Context, transaction Transaction) (bool, error) {
	if s.FailWith != nil {
		return false, s.FailWith
	}
	for i, t := range s.transactions {
		if t.Id == transaction.Id {
			s.transactions[i] = transaction
			return true, nil
		}
	}
	return false, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if s.FailWith != nil {
		return false, s.FailWith
	}
	for i, t := range s.transactions {
		if t.Id == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *RepositoryStub) Cleanup() {
	s.transactions = []Transaction{}
	s.FailWith = nil
}
