package repository

import (
	"context"
	"fmt"

	"insurance-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type ConditionRepository struct {
	db *sqlx.DB
}

func NewConditionRepository(db *sqlx.DB) *ConditionRepository {
	return &ConditionRepository{db: db}
}

// Insert stores a trigger condition under its (policy id, condition index) key.
func (r *ConditionRepository) Insert(ctx context.Context, cond *models.ClaimCondition) error {
	query := `
		INSERT INTO claim_condition (policy_id, condition_index, weather_type, operator, threshold, payout_bps, oracle_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		cond.PolicyID, cond.ConditionIndex, cond.WeatherType, cond.Operator,
		cond.Threshold, cond.PayoutBps, cond.OracleID)
	if err != nil {
		return fmt.Errorf("failed to insert claim condition: %w", err)
	}

	return nil
}

// LoadAll returns every condition, index-ascending per policy, for the
// engine bootstrap.
func (r *ConditionRepository) LoadAll(ctx context.Context) ([]models.ClaimCondition, error) {
	var conditions []models.ClaimCondition
	query := `
		SELECT policy_id, condition_index, weather_type, operator, threshold, payout_bps, oracle_id
		FROM claim_condition
		ORDER BY policy_id, condition_index
	`

	err := r.db.SelectContext(ctx, &conditions, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load claim conditions: %w", err)
	}

	return conditions, nil
}
