package engine

import (
	"testing"

	"insurance-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterOracle_AdminOnly(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.RegisterOracle(testOperator, "O2", testOperator, "Rogue", models.OracleSatellite)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)
}

func TestRegisterOracle_RejectsDuplicateID(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.RegisterOracle(testAdmin, "O1", "other-op", "Dup", models.OracleSatellite)
	assert.ErrorIs(t, err, models.ErrInvalidParameters)
}

func TestDeactivateOracle_KeepsHistoryReadable(t *testing.T) {
	e := newTestEngine(t)
	submitRainfall(t, e, 5, 120)

	oracle, err := e.DeactivateOracle(testAdmin, "O1")
	require.NoError(t, err)
	assert.False(t, oracle.Active)
	assert.False(t, e.IsOracleActive("O1"))

	obs := e.GetObservation("O1", 5)
	require.NotNil(t, obs)
	assert.Equal(t, int64(120), obs.Value)
}

func TestSubmitObservation_RejectsUnknownOrInactiveOracle(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.SubmitObservation(testOperator, "missing", 1, models.WeatherRainfall, "loc", 10, 1)
	assert.ErrorIs(t, err, models.ErrOracleNotRegistered)

	_, err = e.DeactivateOracle(testAdmin, "O1")
	require.NoError(t, err)
	_, err = e.SubmitObservation(testOperator, "O1", 1, models.WeatherRainfall, "loc", 10, 1)
	assert.ErrorIs(t, err, models.ErrOracleNotRegistered)
}

func TestSubmitObservation_OperatorOnly(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.SubmitObservation("someone-else", "O1", 1, models.WeatherRainfall, "loc", 10, 1)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)
}

func TestSubmitObservation_RejectsFutureIndexAndEmptyType(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.SubmitObservation(testOperator, "O1", 11, models.WeatherRainfall, "loc", 10, 10)
	assert.ErrorIs(t, err, models.ErrInvalidOracleData)

	_, err = e.SubmitObservation(testOperator, "O1", 5, "", "loc", 10, 10)
	assert.ErrorIs(t, err, models.ErrInvalidOracleData)
}

func TestSubmitObservation_OverwritesSameIndex(t *testing.T) {
	e := newTestEngine(t)

	submitRainfall(t, e, 7, 100)
	submitRainfall(t, e, 7, 140)

	obs := e.GetObservation("O1", 7)
	require.NotNil(t, obs)
	assert.Equal(t, int64(140), obs.Value)
}

func TestGetLatestObservation_TracksHighestIndex(t *testing.T) {
	e := newTestEngine(t)

	assert.Nil(t, e.GetLatestObservation("O1"))

	submitRainfall(t, e, 3, 50)
	submitRainfall(t, e, 9, 80)
	// Backfill below the latest index must not move the latest pointer.
	submitRainfall(t, e, 6, 999)

	latest := e.GetLatestObservation("O1")
	require.NotNil(t, latest)
	assert.Equal(t, uint64(9), latest.BlockIndex)
	assert.Equal(t, int64(80), latest.Value)
}
