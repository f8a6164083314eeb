package budget

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbook/pocketbook/pkg/category"
	"github.com/pocketbook/pocketbook/pkg/transaction"
	log "github.com/sirupsen/logrus"
)

// LocalRepository keeps budgets in the local SQLite fallback database.
// SQLite's lower() folds ASCII only, so the category key used for uniqueness
// is computed with category.Key and stored next to the category.
type LocalRepository struct {
	db *sql.DB
}

func NewLocalRepository(db *sql.DB) *LocalRepository {
	return &LocalRepository{db: db}
}

func (r *LocalRepository) List(ctx context.Context) ([]Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, type, category, planned_amount, active FROM budgets ORDER BY id`)
	if err != nil {
		err := fmt.Errorf("could not query budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	return collectLocalBudgets(rows)
}

func (r *LocalRepository) Get(ctx context.Context, id int) (Budget, error) {
	var b Budget
	var txType string
	var planned sql.NullFloat64
	err := r.db.QueryRowContext(ctx, `SELECT id, type, category, planned_amount, active FROM budgets WHERE id = ?`, id).
		Scan(&b.Id, &txType, &b.Category, &planned, &b.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Budget{}, ErrBudgetNotFound
		}
		err := fmt.Errorf("could not get budget: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	b.Type = transaction.Type(txType)
	b.PlannedAmount = planned.Float64
	return b, nil
}

func (r *LocalRepository) Create(ctx context.Context, budget Budget) (Budget, error) {
	query := `INSERT INTO budgets (type, category, category_key, planned_amount, active) VALUES (?, ?, ?, ?, ?)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		string(budget.Type),
		budget.Category,
		category.Key(budget.Category),
		budget.PlannedAmount,
		budget.Active,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Budget{}, err
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return Budget{}, err
	}
	budget.Id = int(lastInsertID)
	return budget, nil
}

func (r *LocalRepository) Update(ctx context.Context, budget Budget) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET type = ?, category = ?, category_key = ?, planned_amount = ?, active = ? WHERE id = ?`,
		string(budget.Type),
		budget.Category,
		category.Key(budget.Category),
		budget.PlannedAmount,
		budget.Active,
		budget.Id,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *LocalRepository) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *LocalRepository) FindActive(ctx context.Context, name string, txType transaction.Type) ([]Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, category, planned_amount, active FROM budgets
				WHERE active = 1 AND type = ? AND category_key = ?`,
		string(txType), category.Key(name),
	)
	if err != nil {
		err := fmt.Errorf("could not query budgets: %w", err)
		log.Error(err)
		return nil, err
	}
	return collectLocalBudgets(rows)
}

func collectLocalBudgets(rows *sql.Rows) ([]Budget, error) {
	defer rows.Close()
	budgets := make([]Budget, 0)
	for rows.Next() {
		var b Budget
		var txType string
		var planned sql.NullFloat64
		if err := rows.Scan(&b.Id, &txType, &b.Category, &planned, &b.Active); err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		b.Type = transaction.Type(txType)
		b.PlannedAmount = planned.Float64
		budgets = append(budgets, b)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return budgets, nil
}
