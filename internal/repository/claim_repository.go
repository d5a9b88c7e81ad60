package repository

import (
	"context"
	"fmt"

	"insurance-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type ClaimRepository struct {
	db *sqlx.DB
}

func NewClaimRepository(db *sqlx.DB) *ClaimRepository {
	return &ClaimRepository{db: db}
}

// InsertTx stores a newly submitted claim inside the given transaction.
func (r *ClaimRepository) InsertTx(tx *sqlx.Tx, claim *models.Claim) error {
	query := `
		INSERT INTO claim (id, policy_id, claimant, status, claim_amount, weather_type,
		                   trigger_value, condition_index, observation_index, submitted_index,
		                   processed_index, paid_index, rejection_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := tx.Exec(query,
		claim.ID, claim.PolicyID, claim.Claimant, claim.Status, claim.ClaimAmount, claim.WeatherType,
		claim.TriggerValue, claim.ConditionIndex, claim.ObservationIndex, claim.SubmittedIndex,
		claim.ProcessedIndex, claim.PaidIndex, claim.RejectionReason, claim.CreatedAt, claim.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert claim: %w", err)
	}

	return nil
}

// UpdateTx persists a claim state transition inside the given transaction.
func (r *ClaimRepository) UpdateTx(tx *sqlx.Tx, claim *models.Claim) error {
	query := `
		UPDATE claim
		SET status = $2, processed_index = $3, paid_index = $4, rejection_reason = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := tx.Exec(query,
		claim.ID, claim.Status, claim.ProcessedIndex, claim.PaidIndex, claim.RejectionReason, claim.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("claim not found")
	}

	return nil
}

// Update is the non-transactional form for single-record transitions.
func (r *ClaimRepository) Update(ctx context.Context, claim *models.Claim) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := r.UpdateTx(tx, claim); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit claim update: %w", err)
	}
	return nil
}

// LoadAll returns every claim for the engine bootstrap.
func (r *ClaimRepository) LoadAll(ctx context.Context) ([]models.Claim, error) {
	var claims []models.Claim
	query := `
		SELECT id, policy_id, claimant, status, claim_amount, weather_type,
		       trigger_value, condition_index, observation_index, submitted_index,
		       processed_index, paid_index, rejection_reason, created_at, updated_at
		FROM claim
		ORDER BY id
	`

	err := r.db.SelectContext(ctx, &claims, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load claims: %w", err)
	}

	return claims, nil
}
