package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// LocalRepository stores transactions in the local SQLite fallback database.
// SQLite accepts text in any column, so rows written by older clients may hold
// dates or numbers that no longer parse. Those rows load with a zero date or a
// missing amount instead of failing the list.
type LocalRepository struct {
	db *sql.DB
}

func NewLocalRepository(db *sql.DB) *LocalRepository {
	return &LocalRepository{db: db}
}

func (r *LocalRepository) List(ctx context.Context, txType Type) ([]Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions`
	args := []any{}
	if txType != "" {
		query += ` WHERE type = ?`
		args = append(args, string(txType))
	}
	query += ` ORDER BY tx_date DESC, created DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		err := fmt.Errorf("could not query transactions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	transactions := make([]Transaction, 0, 32)
	for rows.Next() {
		t, err := scanLocalTransaction(rows)
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

func (r *LocalRepository) Get(ctx context.Context, id uuid.UUID) (Transaction, error) {
	query := `SELECT ` + selectColumns + ` FROM transactions WHERE id = ?`
	t, err := scanLocalTransaction(r.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Transaction{}, ErrTransactionNotFound
		}
		err := fmt.Errorf("could not get transaction: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	return t, nil
}

func (r *LocalRepository) Create(ctx context.Context, transaction Transaction) (Transaction, error) {
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
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not prepare query: %w", err)
		log.Error(err)
		return Transaction{}, err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx,
		transaction.Id.String(),
		string(transaction.Type),
		transaction.Category,
		transaction.Amount,
		transaction.Description,
		transaction.Date.Format(DateLayout),
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

func (r *LocalRepository) Replace(ctx context.Context, transaction Transaction) (bool, error) {
	query := `UPDATE transactions SET
					type = ?,
					category = ?,
					amount = ?,
					description = ?,
					tx_date = ?,
					asset_symbol = ?,
					quantity = ?,
					purchase_price = ?
				WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		string(transaction.Type),
		transaction.Category,
		transaction.Amount,
		transaction.Description,
		transaction.Date.Format(DateLayout),
		transaction.AssetSymbol,
		transaction.Quantity,
		transaction.PurchasePrice,
		transaction.Id.String(),
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

func (r *LocalRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id.String())
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocalTransaction(row rowScanner) (Transaction, error) {
	var (
		t             Transaction
		id            string
		txType        string
		amount        sql.NullString
		description   sql.NullString
		date          sql.NullString
		assetSymbol   sql.NullString
		quantity      sql.NullString
		purchasePrice sql.NullString
	)
	err := row.Scan(
		&id,
		&txType,
		&t.Category,
		&amount,
		&description,
		&date,
		&assetSymbol,
		&quantity,
		&purchasePrice,
	)
	if err != nil {
		return Transaction{}, err
	}

	parsedId, err := uuid.Parse(id)
	if err != nil {
		log.Warnf("transaction with malformed id %q, keeping it without id", id)
	}
	t.Id = parsedId
	t.Type = Type(txType)
	if a, ok := parseLocalNumber(id, "amount", amount); ok {
		t.Amount = a
	}
	if description.Valid {
		t.Description = description.String
	}
	if date.Valid {
		parsedDate, err := ParseDate(date.String)
		if err != nil {
			log.Warnf("transaction %s has an unparseable date, it will be excluded from period filters: %v", id, err)
		} else {
			t.Date = parsedDate
		}
	}
	if assetSymbol.Valid {
		t.AssetSymbol = assetSymbol.String
	}
	if q, ok := parseLocalNumber(id, "quantity", quantity); ok {
		t.Quantity = &q
	}
	if p, ok := parseLocalNumber(id, "purchase price", purchasePrice); ok {
		t.PurchasePrice = &p
	}
	return t, nil
}

func parseLocalNumber(id, field string, value sql.NullString) (float64, bool) {
	if !value.Valid || strings.TrimSpace(value.String) == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(value.String), 64)
	if err != nil {
		log.Warnf("transaction %s has an unparseable %s %q, treating it as missing", id, field, value.String)
		return 0, false
	}
	return n, true
}
