package engine

import (
	"math"
	"testing"

	"insurance-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Full lifecycle from the registered oracle through payout: observation at
// index 10, rainfall 200 against a GreaterThan-150 condition with a 100%
// payout share pays out the full coverage and closes the policy.
func TestClaimLifecycle_EndToEnd(t *testing.T) {
	e := newTestEngine(t)

	submitRainfall(t, e, 10, 200)

	res, err := e.IssuePolicy(testHolder, "standard", 100000, "mekong-delta", 100, false, 100000, 10)
	require.NoError(t, err)
	policyID := res.Policy.ID
	addRainfallCondition(t, e, policyID, 0, models.ThresholdGT, 150, 10000, 10)

	require.NoError(t, e.Claimable(policyID, 10))

	claim, err := e.SubmitClaim(testHolder, policyID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claim.ID)
	assert.Equal(t, models.ClaimPending, claim.Status)
	assert.Equal(t, int64(100000), claim.ClaimAmount)
	assert.Equal(t, int64(200), claim.TriggerValue)
	assert.Equal(t, uint64(10), claim.ObservationIndex)
	assert.Equal(t, 0, claim.ConditionIndex)

	processed, err := e.ProcessClaim(testAdmin, claim.ID, 11)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimApproved, processed.Status)
	require.NotNil(t, processed.ProcessedIndex)
	assert.Equal(t, uint64(11), *processed.ProcessedIndex)

	// Treasury only holds the premium, so payment bounces first.
	_, err = e.PayClaim(testAdmin, claim.ID, 12)
	assert.ErrorIs(t, err, models.ErrPaymentFailed)

	// Fund the treasury through more issuance, then pay.
	for i := 0; i < 150; i++ {
		_, err := e.IssuePolicy("other-holder", "standard", 100000, "loc", 100, false, 1000, 10)
		require.NoError(t, err)
	}
	paid, err := e.PayClaim(testAdmin, claim.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimPaid, paid.Claim.Status)
	require.NotNil(t, paid.Claim.PaidIndex)
	assert.Equal(t, uint64(12), *paid.Claim.PaidIndex)
	assert.Equal(t, models.PolicyClaimed, paid.Policy.Status)
	assert.Equal(t, int64(100000), paid.Treasury.ClaimsPaid)
}

func TestSubmitClaim_Preconditions(t *testing.T) {
	e := newTestEngine(t)
	submitRainfall(t, e, 10, 200)
	policy := issueTestPolicy(t, e, 10)
	addRainfallCondition(t, e, policy.ID, 0, models.ThresholdGT, 150, 10000, 10)

	_, err := e.SubmitClaim(testHolder, 999, 10)
	assert.ErrorIs(t, err, models.ErrPolicyNotFound)

	_, err = e.SubmitClaim("stranger", policy.ID, 10)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)

	_, err = e.SubmitClaim(testHolder, policy.ID, 111)
	assert.ErrorIs(t, err, models.ErrPolicyNotActive)
}

func TestSubmitClaim_NoMatchCreatesNoRecord(t *testing.T) {
	e := newTestEngine(t)
	submitRainfall(t, e, 10, 100)
	policy := issueTestPolicy(t, e, 10)
	addRainfallCondition(t, e, policy.ID, 0, models.ThresholdGT, 150, 10000, 10)

	_, err := e.SubmitClaim(testHolder, policy.ID, 10)
	assert.ErrorIs(t, err, models.ErrClaimConditionNotMet)

	// Fail fast before state mutation: no orphaned claim, counter untouched.
	assert.Nil(t, e.GetClaim(1))
	assert.Empty(t, e.ClaimsByPolicy(policy.ID))

	submitRainfall(t, e, 11, 200)
	claim, err := e.SubmitClaim(testHolder, policy.ID, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claim.ID, "failed submissions must not consume claim ids")
}

func TestSubmitClaim_NoOracleData(t *testing.T) {
	e := newTestEngine(t)
	policy := issueTestPolicy(t, e, 10)
	addRainfallCondition(t, e, policy.ID, 0, models.ThresholdGT, 150, 10000, 10)

	_, err := e.SubmitClaim(testHolder, policy.ID, 10)
	assert.ErrorIs(t, err, models.ErrNoOracleData)
}

func TestSubmitClaim_PayoutShareAndCap(t *testing.T) {
	e := newTestEngine(t)
	submitRainfall(t, e, 10, 200)
	policy := issueTestPolicy(t, e, 10)
	addRainfallCondition(t, e, policy.ID, 0, models.ThresholdGT, 150, 2500, 10)

	claim, err := e.SubmitClaim(testHolder, policy.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), claim.ClaimAmount, "floor(100000*2500/10000)")
}

func TestProcessClaim_RevalidationRejectsStaleMatch(t *testing.T) {
	e := newTestEngine(t)
	submitRainfall(t, e, 10, 200)
	policy := issueTestPolicy(t, e, 10)
	addRainfallCondition(t, e, policy.ID, 0, models.ThresholdGT, 150, 10000, 10)

	claim, err := e.SubmitClaim(testHolder, policy.ID, 10)
	require.NoError(t, err)

	// The oracle reports a newer, lower reading before processing.
	submitRainfall(t, e, 11, 80)

	processed, err := e.ProcessClaim(testAdmin, claim.ID, 11)
	require.NoError(t, err, "the transition succeeds, the claim is rejected")
	assert.Equal(t, models.ClaimRejected, processed.Status)
	require.NotNil(t, processed.RejectionReason)
	assert.Equal(t, "CLAIM_CONDITION_NOT_MET", *processed.RejectionReason)

	// Rejected is terminal.
	_, err = e.ProcessClaim(testAdmin, claim.ID, 12)
	assert.ErrorIs(t, err, models.ErrInvalidParameters)
	_, err = e.PayClaim(testAdmin, claim.ID, 12)
	assert.ErrorIs(t, err, models.ErrInvalidParameters)
}

func TestProcessClaim_Authorization(t *testing.T) {
	e := newTestEngine(t)
	submitRainfall(t, e, 10, 200)
	policy := issueTestPolicy(t, e, 10)
	addRainfallCondition(t, e, policy.ID, 0, models.ThresholdGT, 150, 10000, 10)
	claim, err := e.SubmitClaim(testHolder, policy.ID, 10)
	require.NoError(t, err)

	_, err = e.ProcessClaim("stranger", claim.ID, 11)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)

	_, err = e.ProcessClaim(testHolder, claim.ID, 11)
	require.NoError(t, err, "claimant may drive processing")
}

func TestPayClaim_IdempotenceAndNoDoubleDebit(t *testing.T) {
	e := newTestEngine(t)
	submitRainfall(t, e, 10, 200)

	// Small coverage with a high rate so the single premium funds the payout.
	_, err := e.DefineRiskProfile(testAdmin, "micro", "Micro", 5000, 0, 100, 1000, "")
	require.NoError(t, err)
	res, err := e.IssuePolicy(testHolder, "micro", 1000, "loc", 100, false, 500, 10)
	require.NoError(t, err)
	addRainfallCondition(t, e, res.Policy.ID, 0, models.ThresholdGT, 150, 1000, 10)

	claim, err := e.SubmitClaim(testHolder, res.Policy.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(100), claim.ClaimAmount)

	_, err = e.ProcessClaim(testAdmin, claim.ID, 11)
	require.NoError(t, err)

	paid, err := e.PayClaim(testAdmin, claim.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(400), paid.Treasury.Balance)

	_, err = e.PayClaim(testAdmin, claim.ID, 13)
	assert.ErrorIs(t, err, models.ErrAlreadyClaimed)
	assert.Equal(t, int64(400), e.Treasury().Balance, "no double debit")

	_, err = e.PayClaim(testHolder, claim.ID, 13)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)
}

func TestClaimExclusivity_OnePaidClaimPerPolicy(t *testing.T) {
	e := newTestEngine(t)
	submitRainfall(t, e, 10, 200)
	_, err := e.DefineRiskProfile(testAdmin, "micro", "Micro", 5000, 0, 100, 1000, "")
	require.NoError(t, err)
	res, err := e.IssuePolicy(testHolder, "micro", 1000, "loc", 100, false, 500, 10)
	require.NoError(t, err)
	addRainfallCondition(t, e, res.Policy.ID, 0, models.ThresholdGT, 150, 1000, 10)

	claim, err := e.SubmitClaim(testHolder, res.Policy.ID, 10)
	require.NoError(t, err)
	_, err = e.ProcessClaim(testAdmin, claim.ID, 11)
	require.NoError(t, err)
	_, err = e.PayClaim(testAdmin, claim.ID, 12)
	require.NoError(t, err)

	_, err = e.SubmitClaim(testHolder, res.Policy.ID, 13)
	assert.ErrorIs(t, err, models.ErrAlreadyClaimed)
	assert.ErrorIs(t, e.Claimable(res.Policy.ID, 13), models.ErrAlreadyClaimed)
}

func TestClaimable_ReportsReason(t *testing.T) {
	e := newTestEngine(t)
	submitRainfall(t, e, 10, 100)
	policy := issueTestPolicy(t, e, 10)
	addRainfallCondition(t, e, policy.ID, 0, models.ThresholdGT, 150, 10000, 10)

	assert.ErrorIs(t, e.Claimable(999, 10), models.ErrPolicyNotFound)
	assert.ErrorIs(t, e.Claimable(policy.ID, 10), models.ErrNotClaimableYet)
	assert.ErrorIs(t, e.Claimable(policy.ID, 111), models.ErrPolicyNotActive)
	assert.False(t, e.IsClaimable(policy.ID, 10))

	submitRainfall(t, e, 11, 200)
	assert.True(t, e.IsClaimable(policy.ID, 11))
}

func TestProcessClaim_ClaimNotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.ProcessClaim(testAdmin, 42, 1)
	assert.ErrorIs(t, err, models.ErrClaimNotFound)

	_, err = e.PayClaim(testAdmin, 42, 1)
	assert.ErrorIs(t, err, models.ErrClaimNotFound)
}

func TestPayoutAmount_LargeCoverageStaysExact(t *testing.T) {
	// coverage * bps wraps int64 at full coverage; the 128-bit product must
	// still floor exactly and never exceed coverage.
	assert.Equal(t, int64(math.MaxInt64), payoutAmount(math.MaxInt64, 10000))
	assert.Equal(t, int64(math.MaxInt64/4), payoutAmount(math.MaxInt64, 2500))
	assert.Equal(t, int64(25000), payoutAmount(100000, 2500))
	assert.Equal(t, int64(0), payoutAmount(100000, 0))
}
