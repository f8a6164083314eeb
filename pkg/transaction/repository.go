package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Repository is the transaction store. List with an empty type returns every transaction.
type Repository interface {
	List(ctx context.Context, txType Type) ([]Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (Transaction, error)
	Create(ctx context.Context, transaction Transaction) (Transaction, error)
	Replace(ctx context.Context, transaction Transaction) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const selectColumns = `id, type, category, amount, description, tx_date, asset_symbol, quantity, purchase_price`

func (r RepositoryImpl) List(ctx context.Context, txType Type) ([]Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions`
	args := []any{}
	if txType != "" {
		query += ` WHERE type = $1`
		args = append(args, string(txType))
	}
	query += ` ORDER BY tx_date DESC NULLS LAST, created DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	transactions := make([]Transaction, 0, 32)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			err := fmt.Errorf("error scanning row: %w", err)
			log.Error(err)
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return transactions, nil
}

func (r RepositoryImpl) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE id = $1`
	t, err := scanTransaction(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrTransactionNotFound
		}
		err := fmt.Errorf("could not get transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	return t, nil
}

func (r RepositoryImpl) Create(ctx context.Context, transaction Transaction) (Transaction, error) {
	if transaction.Id == uuid.Nil {
		transaction.Id = uuid.New()
	}
	query := `INSERT INTO transactions (
					id,
					type,
					category,
					amount,
					description,
					tx_date,
					asset_symbol,
					quantity,
					purchase_price
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		transaction.Id,
		string(transaction.Type),
		transaction.Category,
		transaction.Amount,
		transaction.Description,
		transaction.Date,
		transaction.AssetSymbol,
		transaction.Quantity,
		transaction.PurchasePrice,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	return transaction, nil
}

func (r RepositoryImpl) Replace(ctx context.Context, transaction Transaction) (bool, error) {
	query := `UPDATE transactions SET
					type = $1,
					category = $2,
					amount = $3,
					description = $4,
					tx_date = $5,
					asset_symbol = $6,
					quantity = $7,
					purchase_price = $8
				WHERE id = $9`
	result, err := r.db.Exec(ctx, query,
		string(transaction.Type),
		transaction.Category,
		transaction.Amount,
		transaction.Description,
		transaction.Date,
		transaction.AssetSymbol,
		transaction.Quantity,
		transaction.PurchasePrice,
		transaction.Id,
	)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func (r RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() == 1, nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var (
		t           Transaction
		txType      string
		amount      *float64
		description *string
		date        *time.Time
		assetSymbol *string
	)
	err := row.Scan(
		&t.Id,
		&txType,
		&t.Category,
		&amount,
		&description,
		&date,
		&assetSymbol,
		&t.Quantity,
		&t.PurchasePrice,
	)
	if err != nil {
		return Transaction{}, err
	}
	t.Type = Type(txType)
	if amount != nil {
		t.Amount = *amount
	}
	if description != nil {
		t.Description = *description
	}
	if date != nil {
		t.Date = *date
	}
	if assetSymbol != nil {
		t.AssetSymbol = *assetSymbol
	}
	return t, nil
}
