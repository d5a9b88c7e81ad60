package engine

import (
	"math"
	"testing"

	"insurance-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuePolicy_HappyPath(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.IssuePolicy(testHolder, "standard", 100000, "mekong-delta", 100, true, 750, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.Policy.ID)
	assert.Equal(t, models.PolicyActive, res.Policy.Status)
	assert.Equal(t, int64(750), res.Policy.PremiumAmount)
	assert.Equal(t, uint64(10), res.Policy.StartIndex)
	assert.Equal(t, uint64(110), res.Policy.EndIndex)
	assert.True(t, res.Policy.AutoRenew)
	assert.Equal(t, int64(750), res.Treasury.PremiumsCollected)
	assert.Equal(t, int64(750), res.Treasury.Balance)
	assert.Equal(t, []int64{1}, e.PoliciesByHolder(testHolder))
}

func TestIssuePolicy_MonotonicIDs(t *testing.T) {
	e := newTestEngine(t)

	first := issueTestPolicy(t, e, 1)
	second := issueTestPolicy(t, e, 1)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, []int64{1, 2}, e.PoliciesByHolder(testHolder))
}

func TestIssuePolicy_ExtremeRateCannotUnderfundTreasury(t *testing.T) {
	e := newTestEngine(t)

	// A wrapped premium used to come out negative, making a zero tender pass
	// the payment check and pushing the treasury balance below zero.
	_, err := e.DefineRiskProfile(testAdmin, "extreme", "Extreme", 9_000_000_000_000_000_000, 0, 0, math.MaxInt64, "")
	require.NoError(t, err)

	_, err = e.IssuePolicy(testHolder, "extreme", 1000, "loc", 100, false, 0, 10)
	assert.ErrorIs(t, err, models.ErrInsufficientPayment)
	assert.Zero(t, e.Treasury().Balance)
	assert.Empty(t, e.PoliciesByHolder(testHolder))
}

func TestIssuePolicy_CoverageBoundaries(t *testing.T) {
	e := newTestEngine(t)

	cases := []struct {
		name     string
		coverage int64
		wantErr  error
	}{
		{"at min", 10000, nil},
		{"at max", 1000000, nil},
		{"below min", 9999, models.ErrInvalidCoverageAmount},
		{"above max", 1000001, models.ErrInvalidCoverageAmount},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.IssuePolicy(testHolder, "standard", tc.coverage, "loc", 10, false, 10000000, 1)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestIssuePolicy_InsufficientPayment(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.IssuePolicy(testHolder, "standard", 100000, "loc", 100, false, 749, 1)
	assert.ErrorIs(t, err, models.ErrInsufficientPayment)

	// Nothing was credited on the failed path.
	assert.Equal(t, int64(0), e.Treasury().Balance)
	assert.Empty(t, e.PoliciesByHolder(testHolder))
}

func TestIssuePolicy_UnknownProfile(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.IssuePolicy(testHolder, "missing", 100000, "loc", 100, false, 1000, 1)
	assert.ErrorIs(t, err, models.ErrInvalidRiskProfile)
}

func TestIsPolicyActive_WindowBoundariesInclusive(t *testing.T) {
	e := newTestEngine(t)
	policy := issueTestPolicy(t, e, 10) // window [10, 110]

	assert.False(t, e.IsPolicyActive(policy.ID, 9))
	assert.True(t, e.IsPolicyActive(policy.ID, 10))
	assert.True(t, e.IsPolicyActive(policy.ID, 110))
	assert.False(t, e.IsPolicyActive(policy.ID, 111))
}

func TestIsPolicyActive_LapsedPolicyKeepsStoredStatus(t *testing.T) {
	e := newTestEngine(t)
	policy := issueTestPolicy(t, e, 10)

	assert.False(t, e.IsPolicyActive(policy.ID, 200))

	stored := e.GetPolicy(policy.ID)
	require.NotNil(t, stored)
	assert.Equal(t, models.PolicyActive, stored.Status, "expiry is derived, never written back")
}

func TestCancelPolicy(t *testing.T) {
	e := newTestEngine(t)
	policy := issueTestPolicy(t, e, 10)

	_, err := e.CancelPolicy("stranger", policy.ID, 20)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)

	_, err = e.CancelPolicy(testHolder, 999, 20)
	assert.ErrorIs(t, err, models.ErrPolicyNotFound)

	cancelled, err := e.CancelPolicy(testHolder, policy.ID, 20)
	require.NoError(t, err)
	assert.Equal(t, models.PolicyCancelled, cancelled.Status)

	_, err = e.CancelPolicy(testHolder, policy.ID, 21)
	assert.ErrorIs(t, err, models.ErrPolicyNotActive)
}

func TestRenewPolicy_BeforeEndIndexFails(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.IssuePolicy(testHolder, "standard", 100000, "loc", 100, true, 1000, 10)
	require.NoError(t, err)

	_, err = e.RenewPolicy(testHolder, res.Policy.ID, 1000, 109)
	assert.ErrorIs(t, err, models.ErrPolicyNotExpired)
}

func TestRenewPolicy_WithoutAutoRenewFails(t *testing.T) {
	e := newTestEngine(t)
	policy := issueTestPolicy(t, e, 10)

	_, err := e.RenewPolicy(testHolder, policy.ID, 1000, 120)
	assert.ErrorIs(t, err, models.ErrInvalidParameters)
}

func TestRenewPolicy_ExtendsWindowAndRecomputesPremium(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.IssuePolicy(testHolder, "standard", 100000, "loc", 100, true, 1000, 10)
	require.NoError(t, err)

	renewed, err := e.RenewPolicy(testHolder, res.Policy.ID, 1000, 120)
	require.NoError(t, err)

	assert.Equal(t, uint64(120), renewed.Policy.StartIndex)
	assert.Equal(t, uint64(220), renewed.Policy.EndIndex)
	assert.Equal(t, 1, renewed.Policy.RenewalCount)
	assert.Equal(t, int64(750), renewed.Policy.PremiumAmount)
	assert.Equal(t, int64(1500), renewed.Treasury.PremiumsCollected)
}

func TestRenewPolicy_InsufficientFreshPayment(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.IssuePolicy(testHolder, "standard", 100000, "loc", 100, true, 1000, 10)
	require.NoError(t, err)

	_, err = e.RenewPolicy(testHolder, res.Policy.ID, 749, 120)
	assert.ErrorIs(t, err, models.ErrInsufficientPayment)

	stored := e.GetPolicy(res.Policy.ID)
	assert.Equal(t, uint64(110), stored.EndIndex, "failed renewal must not extend the window")
	assert.Equal(t, 0, stored.RenewalCount)
}
