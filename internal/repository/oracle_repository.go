package repository

import (
	"context"
	"fmt"

	"insurance-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type OracleRepository struct {
	db *sqlx.DB
}

func NewOracleRepository(db *sqlx.DB) *OracleRepository {
	return &OracleRepository{db: db}
}

// Insert stores a freshly registered oracle.
func (r *OracleRepository) Insert(ctx context.Context, oracle *models.Oracle) error {
	query := `
		INSERT INTO oracle (id, operator, name, category, active, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		oracle.ID, oracle.Operator, oracle.Name, oracle.Category, oracle.Active, oracle.RegisteredAt)
	if err != nil {
		return fmt.Errorf("failed to insert oracle: %w", err)
	}

	return nil
}

// UpdateActive persists an activation flag change.
func (r *OracleRepository) UpdateActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE oracle SET active = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return fmt.Errorf("failed to update oracle active flag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("oracle not found")
	}

	return nil
}

// LoadAll returns every oracle for the engine bootstrap.
func (r *OracleRepository) LoadAll(ctx context.Context) ([]models.Oracle, error) {
	var oracles []models.Oracle
	query := `
		SELECT id, operator, name, category, active, registered_at
		FROM oracle
		ORDER BY registered_at
	`

	err := r.db.SelectContext(ctx, &oracles, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load oracles: %w", err)
	}

	return oracles, nil
}
