package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Repository stores the single settings row.
type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Store(ctx context.Context, settings Settings) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Get(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.db.QueryRow(ctx, `SELECT display_name, currency, language FROM settings WHERE id = 1`).
		Scan(&s.DisplayName, &s.Currency, &s.Language)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{}, ErrSettingsNotFound
	} else if err != nil {
		log.Errorf("failed to get settings: %v", err)
		return Settings{}, err
	}
	return s, nil
}

func (r *RepositoryImpl) Store(ctx context.Context, settings Settings) error {
	query := `INSERT INTO settings (id, display_name, currency, language) VALUES (1, $1, $2, $3)
				ON CONFLICT (id) DO UPDATE SET display_name = EXCLUDED.display_name,
					currency = EXCLUDED.currency, language = EXCLUDED.language`
	_, err := r.db.Exec(ctx, query, settings.DisplayName, settings.Currency, settings.Language)
	if err != nil {
		err := fmt.Errorf("failed to store settings: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

type LocalRepository struct {
	db *sql.DB
}

func NewLocalRepository(db *sql.DB) *LocalRepository {
	return &LocalRepository{db: db}
}

func (r *LocalRepository) Get(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.db.QueryRowContext(ctx, `SELECT display_name, currency, language FROM settings WHERE id = 1`).
		Scan(&s.DisplayName, &s.Currency, &s.Language)
	if errors.Is(err, sql.ErrNoRows) {
		return Settings{}, ErrSettingsNotFound
	} else if err != nil {
		log.Errorf("failed to get settings: %v", err)
		return Settings{}, err
	}
	return s, nil
}

func (r *LocalRepository) Store(ctx context.Context, settings Settings) error {
	query := `INSERT INTO settings (id, display_name, currency, language) VALUES (1, ?, ?, ?)
				ON CONFLICT (id) DO UPDATE SET display_name = excluded.display_name,
					currency = excluded.currency, language = excluded.language`
	_, err := r.db.ExecContext(ctx, query, settings.DisplayName, settings.Currency, settings.Language)
	if err != nil {
		err := fmt.Errorf("failed to store settings: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
