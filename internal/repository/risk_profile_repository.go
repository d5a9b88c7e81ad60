package repository

import (
	"context"
	"fmt"

	"insurance-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type RiskProfileRepository struct {
	db *sqlx.DB
}

func NewRiskProfileRepository(db *sqlx.DB) *RiskProfileRepository {
	return &RiskProfileRepository{db: db}
}

// Insert stores a new premium-rate template.
func (r *RiskProfileRepository) Insert(ctx context.Context, profile *models.RiskProfile) error {
	query := `
		INSERT INTO risk_profile (id, name, base_rate_bps, risk_factor_bps, min_coverage, max_coverage, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.ID, profile.Name, profile.BaseRateBps, profile.RiskFactorBps,
		profile.MinCoverage, profile.MaxCoverage, profile.Description, profile.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert risk profile: %w", err)
	}

	return nil
}

// LoadAll returns every risk profile for the engine bootstrap.
func (r *RiskProfileRepository) LoadAll(ctx context.Context) ([]models.RiskProfile, error) {
	var profiles []models.RiskProfile
	query := `
		SELECT id, name, base_rate_bps, risk_factor_bps, min_coverage, max_coverage, description, created_at
		FROM risk_profile
		ORDER BY created_at
	`

	err := r.db.SelectContext(ctx, &profiles, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load risk profiles: %w", err)
	}

	return profiles, nil
}
