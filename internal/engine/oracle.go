package engine

import (
	"time"

	"insurance-service/internal/models"
)

// RegisterOracle records a new trusted data provider. Administrator only.
// operator is the identity that may submit observations under this id.
func (e *Engine) RegisterOracle(caller, id, operator, name string, category models.OracleCategory) (*models.Oracle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isAdmin(caller) {
		return nil, models.ErrNotAuthorized
	}
	if id == "" || operator == "" {
		return nil, models.ErrInvalidParameters
	}
	if _, exists := e.st.oracles[id]; exists {
		return nil, models.ErrInvalidParameters
	}

	oracle := &models.Oracle{
		ID:           id,
		Operator:     operator,
		Name:         name,
		Category:     category,
		Active:       true,
		RegisteredAt: time.Now().UTC(),
	}
	e.st.oracles[id] = oracle

	out := *oracle
	return &out, nil
}

// DeactivateOracle flips the active flag. History stays readable; the oracle
// just stops being accepted for new observations and new conditions.
func (e *Engine) DeactivateOracle(caller, id string) (*models.Oracle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isAdmin(caller) {
		return nil, models.ErrNotAuthorized
	}
	oracle, ok := e.st.oracles[id]
	if !ok {
		return nil, models.ErrOracleNotRegistered
	}

	oracle.Active = false

	out := *oracle
	return &out, nil
}

// IsOracleActive reports whether the oracle is registered and active.
func (e *Engine) IsOracleActive(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	oracle, ok := e.st.oracles[id]
	return ok && oracle.Active
}

// GetOracle returns the oracle record, or nil if unknown.
func (e *Engine) GetOracle(id string) *models.Oracle {
	e.mu.Lock()
	defer e.mu.Unlock()
	oracle, ok := e.st.oracles[id]
	if !ok {
		return nil
	}
	out := *oracle
	return &out
}

// SubmitObservation upserts the (oracle, index) observation slot. Only the
// oracle's registered operator may submit, the oracle must be active, and the
// index must not be ahead of the current block index.
func (e *Engine) SubmitObservation(caller, oracleID string, index uint64, weatherType models.WeatherType, location string, value int64, now uint64) (*models.Observation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	oracle, ok := e.st.oracles[oracleID]
	if !ok || !oracle.Active {
		return nil, models.ErrOracleNotRegistered
	}
	if caller != oracle.Operator {
		return nil, models.ErrNotAuthorized
	}
	if weatherType == "" || index > now {
		return nil, models.ErrInvalidOracleData
	}

	obs := &models.Observation{
		OracleID:    oracleID,
		BlockIndex:  index,
		WeatherType: weatherType,
		Location:    location,
		Value:       value,
		Timestamp:   time.Now().UTC(),
	}
	e.st.observations[ObsKey{oracleID, index}] = obs
	if cur, ok := e.st.latestObsIndex[oracleID]; !ok || index > cur {
		e.st.latestObsIndex[oracleID] = index
	}

	out := *obs
	return &out, nil
}

// GetObservation returns the observation at (oracle, index), or nil.
func (e *Engine) GetObservation(oracleID string, index uint64) *models.Observation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.observationCopy(oracleID, index)
}

// GetLatestObservation returns the most recently indexed observation for the
// oracle, or nil if it has never submitted.
func (e *Engine) GetLatestObservation(oracleID string) *models.Observation {
	e.mu.Lock()
	defer e.mu.Unlock()
	index, ok := e.st.latestObsIndex[oracleID]
	if !ok {
		return nil
	}
	return e.observationCopy(oracleID, index)
}

func (e *Engine) observationCopy(oracleID string, index uint64) *models.Observation {
	obs, ok := e.st.observations[ObsKey{oracleID, index}]
	if !ok {
		return nil
	}
	out := *obs
	return &out
}

// latestObservation is the lock-free variant used inside entry points that
// already hold the mutex.
func (e *Engine) latestObservation(oracleID string) *models.Observation {
	index, ok := e.st.latestObsIndex[oracleID]
	if !ok {
		return nil
	}
	return e.st.observations[ObsKey{oracleID, index}]
}
