package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"insurance-service/internal/models"

	"github.com/jmoiron/sqlx"
)

// TreasuryRepository persists the single-row aggregate counters and the
// monotonic id counters.
type TreasuryRepository struct {
	db *sqlx.DB
}

func NewTreasuryRepository(db *sqlx.DB) *TreasuryRepository {
	return &TreasuryRepository{db: db}
}

// UpsertTx writes the treasury snapshot inside the given transaction.
func (r *TreasuryRepository) UpsertTx(tx *sqlx.Tx, treasury models.Treasury) error {
	query := `
		INSERT INTO treasury (id, premiums_collected, claims_paid, balance)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET premiums_collected = $1, claims_paid = $2, balance = $3
	`

	_, err := tx.Exec(query, treasury.PremiumsCollected, treasury.ClaimsPaid, treasury.Balance)
	if err != nil {
		return fmt.Errorf("failed to upsert treasury: %w", err)
	}

	return nil
}

// Get returns the persisted treasury snapshot; a missing row is an empty
// treasury, not an error.
func (r *TreasuryRepository) Get(ctx context.Context) (models.Treasury, error) {
	var treasury models.Treasury
	query := `SELECT premiums_collected, claims_paid, balance FROM treasury WHERE id = 1`

	err := r.db.GetContext(ctx, &treasury, query)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Treasury{}, nil
	}
	if err != nil {
		return models.Treasury{}, fmt.Errorf("failed to get treasury: %w", err)
	}

	return treasury, nil
}

// SetCounterTx writes a named monotonic counter inside the given transaction.
func (r *TreasuryRepository) SetCounterTx(tx *sqlx.Tx, name string, value int64) error {
	query := `
		INSERT INTO engine_counter (name, value)
		VALUES ($1, $2)
		ON CONFLICT (name)
		DO UPDATE SET value = $2
	`

	_, err := tx.Exec(query, name, value)
	if err != nil {
		return fmt.Errorf("failed to set counter %s: %w", name, err)
	}

	return nil
}

// GetCounter returns a named counter, or fallback when unset.
func (r *TreasuryRepository) GetCounter(ctx context.Context, name string, fallback int64) (int64, error) {
	var value int64
	query := `SELECT value FROM engine_counter WHERE name = $1`

	err := r.db.GetContext(ctx, &value, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get counter %s: %w", name, err)
	}

	return value, nil
}
