package engine

import (
	"math"
	"testing"

	"insurance-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePremium_ExactFloorDivision(t *testing.T) {
	e := newTestEngine(t)

	premium, err := e.CalculatePremium("standard", 100000)
	require.NoError(t, err)
	assert.Equal(t, int64(750), premium, "floor(100000*(50+25)/10000) must be 750")
}

func TestCalculatePremium_FloorsTowardZero(t *testing.T) {
	e := newTestEngine(t)

	// 99999 * 75 / 10000 = 749.9925 -> 749
	premium, err := e.CalculatePremium("standard", 99999)
	require.NoError(t, err)
	assert.Equal(t, int64(749), premium)
}

func TestCalculatePremium_UnknownProfile(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.CalculatePremium("missing", 100000)
	assert.ErrorIs(t, err, models.ErrInvalidRiskProfile)
}

func TestCalculatePremium_ExtremeRateStaysExact(t *testing.T) {
	e := newTestEngine(t)

	// coverage * rate wraps int64; the 128-bit product must not.
	_, err := e.DefineRiskProfile(testAdmin, "extreme", "Extreme", 9_000_000_000_000_000_000, 0, 0, math.MaxInt64, "")
	require.NoError(t, err)

	premium, err := e.CalculatePremium("extreme", 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(900_000_000_000_000_000), premium)
}

func TestCalculatePremium_RejectsUnrepresentablePremium(t *testing.T) {
	e := newTestEngine(t)

	// floor(MaxInt64 * 20000 / 10000) = 2*MaxInt64 does not fit in int64.
	_, err := e.DefineRiskProfile(testAdmin, "steep", "Steep", 10000, 10000, 0, math.MaxInt64, "")
	require.NoError(t, err)

	_, err = e.CalculatePremium("steep", math.MaxInt64)
	assert.ErrorIs(t, err, models.ErrInvalidCoverageAmount)

	_, err = e.CalculatePremium("standard", -1)
	assert.ErrorIs(t, err, models.ErrInvalidCoverageAmount)
}

func TestDefineRiskProfile_AdminOnly(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.DefineRiskProfile(testHolder, "p2", "P2", 10, 0, 0, 100, "")
	assert.ErrorIs(t, err, models.ErrNotAuthorized)
}

func TestDefineRiskProfile_RejectsInvertedBounds(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.DefineRiskProfile(testAdmin, "p2", "P2", 10, 0, 500, 100, "")
	assert.ErrorIs(t, err, models.ErrInvalidParameters)
}

func TestDefineRiskProfile_RejectsDuplicateID(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.DefineRiskProfile(testAdmin, "standard", "Again", 10, 0, 0, 100, "")
	assert.ErrorIs(t, err, models.ErrInvalidParameters)
}

func TestValidateCoverage_InclusiveBounds(t *testing.T) {
	profile := &models.RiskProfile{MinCoverage: 10000, MaxCoverage: 1000000}

	assert.True(t, ValidateCoverage(profile, 10000))
	assert.True(t, ValidateCoverage(profile, 1000000))
	assert.False(t, ValidateCoverage(profile, 9999))
	assert.False(t, ValidateCoverage(profile, 1000001))
}
