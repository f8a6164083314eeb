package budget

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	List(ctx context.Context) ([]Budget, error)
	Get(ctx context.Context, id int) (Budget, error)
	Create(ctx context.Context, budget Budget) (Budget, error)
	Update(ctx context.Context, budget Budget) (bool, error)
	Delete(ctx context.Context, id int) (bool, error)
	// FindActive returns the active budgets of txType whose category matches case-insensitively.
	FindActive(ctx context.Context, category string, txType transaction.Type) ([]Budget, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r RepositoryImpl) List(ctx context.Context) ([]Budget, error) {
	rows, err := r.db.Query(ctx, `SELECT id, type, category, planned_amount, active FROM budgets ORDER BY id`)
	if err != nil {
		err := fmt.Errorf("could not query budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	return collectBudgets(rows)
}

func (r RepositoryImpl) Get(ctx context.Context, id int) (Budget, error) {
	var b Budget
	var txType string
	err := r.db.QueryRow(ctx, `SELECT id, type, category, planned_amount, active FROM budgets WHERE id = $1`, id).
		Scan(&b.Id, &txType, &b.Category, &b.PlannedAmount, &b.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Budget{}, ErrBudgetNotFound
		}
		err := fmt.Errorf("could not get budget: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	b.Type = transaction.Type(txType)
	return b, nil
}

func (r RepositoryImpl) Create(ctx context.Context, budget Budget) (Budget, error) {
	query := `INSERT INTO budgets (type, category, planned_amount, active)
				VALUES ($1, $2, $3, $4)
				RETURNING id`
	err := r.db.QueryRow(ctx, query,
		string(budget.Type),
		budget.Category,
		budget.PlannedAmount,
		budget.Active,
	).Scan(&budget.Id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	return budget, nil
}

func (r RepositoryImpl) Update(ctx context.Context, budget Budget) (bool, error) {
	query := `UPDATE budgets SET type = $1, category = $2, planned_amount = $3, active = $4 WHERE id = $5`
	result, err := r.db.Exec(ctx, query,
		string(budget.Type),
		budget.Category,
		budget.PlannedAmount,
		budget.Active,
		budget.Id,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r RepositoryImpl) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.Exec(ctx, "DELETE FROM budgets WHERE id = $1", id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r RepositoryImpl) FindActive(ctx context.Context, category string, txType transaction.Type) ([]Budget, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, type, category, planned_amount, active FROM budgets
				WHERE active AND type = $1 AND lower(category) = lower($2)`,
		string(txType), category,
	)
	if err != nil {
		err := fmt.Errorf("could not query budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	return collectBudgets(rows)
}

func collectBudgets(rows pgx.Rows) ([]Budget, error) {
	defer rows.Close()
	budgets := make([]Budget, 0)
	for rows.Next() {
		var b Budget
		var txType string
		if err := rows.Scan(&b.Id, &txType, &b.Category, &b.PlannedAmount, &b.Active); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		b.Type = transaction.Type(txType)
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return budgets, nil
}
