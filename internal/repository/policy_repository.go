package repository

import (
	"context"
	"fmt"

	"insurance-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type PolicyRepository struct {
	db *sqlx.DB
}

func NewPolicyRepository(db *sqlx.DB) *PolicyRepository {
	return &PolicyRepository{db: db}
}

// BeginTransaction starts a transaction for multi-table mutation batches.
func (r *PolicyRepository) BeginTransaction() (*sqlx.Tx, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// InsertTx stores a newly issued policy inside the given transaction.
func (r *PolicyRepository) InsertTx(tx *sqlx.Tx, policy *models.Policy) error {
	query := `
		INSERT INTO policy (id, holder, risk_profile_id, coverage_amount, premium_amount,
		                    start_index, end_index, status, renewal_count, auto_renew,
		                    location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := tx.Exec(query,
		policy.ID, policy.Holder, policy.RiskProfileID, policy.CoverageAmount, policy.PremiumAmount,
		policy.StartIndex, policy.EndIndex, policy.Status, policy.RenewalCount, policy.AutoRenew,
		policy.Location, policy.CreatedAt, policy.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert policy: %w", err)
	}

	return nil
}

// UpdateTx persists a lifecycle or window change inside the given transaction.
func (r *PolicyRepository) UpdateTx(tx *sqlx.Tx, policy *models.Policy) error {
	query := `
		UPDATE policy
		SET premium_amount = $2, start_index = $3, end_index = $4, status = $5,
		    renewal_count = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := tx.Exec(query,
		policy.ID, policy.PremiumAmount, policy.StartIndex, policy.EndIndex,
		policy.Status, policy.RenewalCount, policy.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update policy: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("policy not found")
	}

	return nil
}

// Update is the non-transactional form for single-record changes.
func (r *PolicyRepository) Update(ctx context.Context, policy *models.Policy) error {
	tx, err := r.BeginTransaction()
	if err != nil {
		return err
	}
	if err := r.UpdateTx(tx, policy); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit policy update: %w", err)
	}
	return nil
}

// LoadAll returns every policy for the engine bootstrap.
func (r *PolicyRepository) LoadAll(ctx context.Context) ([]models.Policy, error) {
	var policies []models.Policy
	query := `
		SELECT id, holder, risk_profile_id, coverage_amount, premium_amount,
		       start_index, end_index, status, renewal_count, auto_renew,
		       location, created_at, updated_at
		FROM policy
		ORDER BY id
	`

	err := r.db.SelectContext(ctx, &policies, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}

	return policies, nil
}
