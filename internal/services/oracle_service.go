package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"insurance-service/internal/database/redis"
	"insurance-service/internal/engine"
	"insurance-service/internal/event"
	"insurance-service/internal/models"
	"insurance-service/internal/repository"
)

const latestObsCacheTTL = 30 * time.Second

type OracleService struct {
	engine     *engine.Engine
	writer     *StateWriter
	oracleRepo *repository.OracleRepository
	obsRepo    *repository.ObservationRepository
	cache      *redis.Client
	publisher  *event.LifecyclePublisher
	clock      BlockClock
}

func NewOracleService(
	eng *engine.Engine,
	writer *StateWriter,
	oracleRepo *repository.OracleRepository,
	obsRepo *repository.ObservationRepository,
	cache *redis.Client,
	publisher *event.LifecyclePublisher,
	clock BlockClock,
) *OracleService {
	return &OracleService{
		engine:     eng,
		writer:     writer,
		oracleRepo: oracleRepo,
		obsRepo:    obsRepo,
		cache:      cache,
		publisher:  publisher,
		clock:      clock,
	}
}

func latestObsCacheKey(oracleID string) string {
	return "oracle_latest:" + oracleID
}

// RegisterOracle registers a trusted data provider. Administrator only.
func (s *OracleService) RegisterOracle(ctx context.Context, caller string, req models.RegisterOracleRequest) (*models.Oracle, error) {
	var oracle *models.Oracle
	err := s.writer.Commit(
		func() (err error) {
			oracle, err = s.engine.RegisterOracle(caller, req.ID, req.Operator, req.Name, req.Category)
			return err
		},
		func() error {
			if err := s.oracleRepo.Insert(ctx, oracle); err != nil {
				slog.Error("failed to persist oracle", "oracle_id", oracle.ID, "error", err)
				return fmt.Errorf("failed to persist oracle: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}
	return oracle, nil
}

// DeactivateOracle stops accepting the oracle's data without deleting its
// history. Administrator only.
func (s *OracleService) DeactivateOracle(ctx context.Context, caller, oracleID string) (*models.Oracle, error) {
	var oracle *models.Oracle
	err := s.writer.Commit(
		func() (err error) {
			oracle, err = s.engine.DeactivateOracle(caller, oracleID)
			return err
		},
		func() error {
			if err := s.oracleRepo.UpdateActive(ctx, oracleID, false); err != nil {
				slog.Error("failed to persist oracle deactivation", "oracle_id", oracleID, "error", err)
				return fmt.Errorf("failed to persist oracle deactivation: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event.LifecycleEvent{
		Kind:       event.EventOracleDeactivated,
		OracleID:   oracleID,
		BlockIndex: s.clock.Now(),
	})

	return oracle, nil
}

// SubmitObservation accepts a measurement from the oracle's registered
// operator and upserts the (oracle, index) slot.
func (s *OracleService) SubmitObservation(ctx context.Context, caller, oracleID string, req models.SubmitObservationRequest) (*models.Observation, error) {
	now := s.clock.Now()
	var obs *models.Observation
	err := s.writer.Commit(
		func() (err error) {
			obs, err = s.engine.SubmitObservation(caller, oracleID, req.BlockIndex, req.WeatherType, req.Location, req.Value, now)
			return err
		},
		func() error {
			if err := s.obsRepo.Upsert(ctx, obs); err != nil {
				slog.Error("failed to persist observation", "oracle_id", oracleID, "block_index", obs.BlockIndex, "error", err)
				return fmt.Errorf("failed to persist observation: %w", err)
			}
			return nil
		},
	)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, latestObsCacheKey(oracleID)); err != nil {
			slog.Warn("failed to invalidate latest observation cache", "oracle_id", oracleID, "error", err)
		}
	}

	return obs, nil
}

// GetOracle returns the oracle record, or nil if unknown.
func (s *OracleService) GetOracle(oracleID string) *models.Oracle {
	return s.engine.GetOracle(oracleID)
}

// IsOracleActive reports whether the oracle is registered and active.
func (s *OracleService) IsOracleActive(oracleID string) bool {
	return s.engine.IsOracleActive(oracleID)
}

// GetObservation returns the observation at (oracle, index), or nil.
func (s *OracleService) GetObservation(oracleID string, index uint64) *models.Observation {
	return s.engine.GetObservation(oracleID, index)
}

// GetLatestObservation serves the most recent observation through the read
// cache. Claim evaluation never goes through here; the engine reads its own
// state directly.
func (s *OracleService) GetLatestObservation(ctx context.Context, oracleID string) *models.Observation {
	key := latestObsCacheKey(oracleID)
	if s.cache != nil {
		var cached models.Observation
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			slog.Warn("latest observation cache read failed", "oracle_id", oracleID, "error", err)
		} else if hit {
			return &cached
		}
	}

	obs := s.engine.GetLatestObservation(oracleID)
	if obs != nil && s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, obs, latestObsCacheTTL); err != nil {
			slog.Warn("latest observation cache write failed", "oracle_id", oracleID, "error", err)
		}
	}
	return obs
}

func (s *OracleService) publish(ctx context.Context, ev event.LifecycleEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		slog.Error("failed to publish lifecycle event", "kind", ev.Kind, "error", err)
	}
}
