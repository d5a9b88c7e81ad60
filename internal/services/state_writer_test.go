package services

import (
	"errors"
	"testing"

	"insurance-service/internal/engine"
	"insurance-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWriterEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng := engine.New("admin-1")
	_, err := eng.DefineRiskProfile("admin-1", "standard", "Standard", 50, 25, 10000, 1000000, "")
	require.NoError(t, err)
	return eng
}

func TestStateWriterRollsBackOnPersistFailure(t *testing.T) {
	eng := newWriterEngine(t)
	w := NewStateWriter(eng)

	err := w.Commit(
		func() error {
			_, err := eng.IssuePolicy("farmer-1", "standard", 100000, "plot-7", 100, false, 1000, 10)
			return err
		},
		func() error { return errors.New("connection reset by peer") },
	)
	require.Error(t, err)

	// The issuance never happened: no policy, no premium, id not consumed.
	assert.Nil(t, eng.GetPolicy(1))
	assert.Empty(t, eng.PoliciesByHolder("farmer-1"))
	assert.Zero(t, eng.Treasury().Balance)

	err = w.Commit(
		func() error {
			res, err := eng.IssuePolicy("farmer-1", "standard", 100000, "plot-7", 100, false, 1000, 10)
			if err == nil {
				assert.EqualValues(t, 1, res.Policy.ID)
			}
			return err
		},
		func() error { return nil },
	)
	require.NoError(t, err)
	assert.EqualValues(t, 750, eng.Treasury().Balance)
}

func TestStateWriterSkipsPersistOnEngineError(t *testing.T) {
	eng := newWriterEngine(t)
	w := NewStateWriter(eng)

	persisted := false
	err := w.Commit(
		func() error {
			_, err := eng.IssuePolicy("farmer-1", "unknown", 100000, "plot-7", 100, false, 1000, 10)
			return err
		},
		func() error {
			persisted = true
			return nil
		},
	)
	require.ErrorIs(t, err, models.ErrInvalidRiskProfile)
	assert.False(t, persisted)
}
