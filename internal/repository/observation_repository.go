package repository

import (
	"context"
	"fmt"

	"insurance-service/internal/models"

	"github.com/jmoiron/sqlx"
)

type ObservationRepository struct {
	db *sqlx.DB
}

func NewObservationRepository(db *sqlx.DB) *ObservationRepository {
	return &ObservationRepository{db: db}
}

// Upsert writes the (oracle id, block index) slot, overwriting any previous
// submission at the same index.
func (r *ObservationRepository) Upsert(ctx context.Context, obs *models.Observation) error {
	query := `
		INSERT INTO oracle_observation (oracle_id, block_index, weather_type, location, value, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (oracle_id, block_index)
		DO UPDATE SET weather_type = $3, location = $4, value = $5, observed_at = $6
	`

	_, err := r.db.ExecContext(ctx, query,
		obs.OracleID, obs.BlockIndex, obs.WeatherType, obs.Location, obs.Value, obs.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to upsert observation: %w", err)
	}

	return nil
}

// LoadAll returns every observation for the engine bootstrap.
func (r *ObservationRepository) LoadAll(ctx context.Context) ([]models.Observation, error) {
	var observations []models.Observation
	query := `
		SELECT oracle_id, block_index, weather_type, location, value, observed_at AS timestamp
		FROM oracle_observation
		ORDER BY oracle_id, block_index
	`

	err := r.db.SelectContext(ctx, &observations, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load observations: %w", err)
	}

	return observations, nil
}
