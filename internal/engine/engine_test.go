package engine

import (
	"testing"

	"insurance-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdmin    = "admin-1"
	testOperator = "station-op-1"
	testHolder   = "farmer-1"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(testAdmin)

	_, err := e.RegisterOracle(testAdmin, "O1", testOperator, "Station One", models.OracleWeatherStation)
	require.NoError(t, err)

	_, err = e.DefineRiskProfile(testAdmin, "standard", "Standard", 50, 25, 10000, 1000000, "standard cover")
	require.NoError(t, err)

	return e
}

func issueTestPolicy(t *testing.T, e *Engine, now uint64) *models.Policy {
	t.Helper()
	res, err := e.IssuePolicy(testHolder, "standard", 100000, "mekong-delta", 100, false, 1000, now)
	require.NoError(t, err)
	return &res.Policy
}

func addRainfallCondition(t *testing.T, e *Engine, policyID int64, index int, operator models.ThresholdOperator, threshold, payoutBps int64, now uint64) {
	t.Helper()
	_, err := e.AddCondition(testHolder, policyID, index, models.WeatherRainfall, operator, threshold, payoutBps, "O1", now)
	require.NoError(t, err)
}

func submitRainfall(t *testing.T, e *Engine, index uint64, value int64) {
	t.Helper()
	_, err := e.SubmitObservation(testOperator, "O1", index, models.WeatherRainfall, "mekong-delta", value, index)
	require.NoError(t, err)
}

// ============================================================================
// SNAPSHOT ROUND-TRIP
// ============================================================================

func TestExportRestore_RoundTrip(t *testing.T) {
	e := newTestEngine(t)
	policy := issueTestPolicy(t, e, 1)
	addRainfallCondition(t, e, policy.ID, 0, models.ThresholdGT, 150, 2500, 1)
	addRainfallCondition(t, e, policy.ID, 1, models.ThresholdLT, 20, 5000, 1)
	submitRainfall(t, e, 5, 200)

	restored := New(testAdmin)
	restored.Restore(e.Export())

	assert.Equal(t, e.Treasury(), restored.Treasury())
	assert.Equal(t, e.GetConditions(policy.ID), restored.GetConditions(policy.ID))
	assert.Equal(t, e.PoliciesByHolder(testHolder), restored.PoliciesByHolder(testHolder))
	assert.Equal(t, e.GetLatestObservation("O1"), restored.GetLatestObservation("O1"))

	// The id counters survive: the next issuance continues the sequence.
	next := issueTestPolicy(t, restored, 1)
	assert.Equal(t, policy.ID+1, next.ID)
}
