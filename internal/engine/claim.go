package engine

import (
	"errors"
	"fmt"
	"math/bits"
	"time"

	"insurance-service/internal/models"
)

// PaymentResult carries everything a successful payment changed.
type PaymentResult struct {
	Claim    models.Claim
	Policy   models.Policy
	Treasury models.Treasury
}

func (e *Engine) policyHasClaim(policyID int64) bool {
	for _, claim := range e.st.claims {
		if claim.PolicyID == policyID {
			return true
		}
	}
	return false
}

func (e *Engine) policyHasPaidClaim(policyID int64) bool {
	for _, claim := range e.st.claims {
		if claim.PolicyID == policyID && claim.Status == models.ClaimPaid {
			return true
		}
	}
	return false
}

// payoutAmount computes floor(coverage * bps / 10000) in 128 bits, capped at
// coverage. The 128-bit product keeps large coverage amounts from wrapping
// int64; the cap also absorbs any quotient beyond coverage.
func payoutAmount(coverageAmount, payoutBps int64) int64 {
	hi, lo := bits.Mul64(uint64(coverageAmount), uint64(payoutBps))
	if hi >= 10000 {
		return coverageAmount
	}
	amount, _ := bits.Div64(hi, lo, 10000)
	if amount > uint64(coverageAmount) {
		return coverageAmount
	}
	return int64(amount)
}

// SubmitClaim evaluates the policy's conditions against each condition
// oracle's latest observation and, on a match, records a pending claim with
// a deterministic amount: floor(coverage * payout_bps / 10000), capped at
// coverage. No claim record is created on any failure path.
func (e *Engine) SubmitClaim(caller string, policyID int64, now uint64) (*models.Claim, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	policy, ok := e.st.policies[policyID]
	if !ok {
		return nil, models.ErrPolicyNotFound
	}
	if caller != policy.Holder {
		return nil, models.ErrNotAuthorized
	}
	if policy.Status == models.PolicyClaimed || e.policyHasPaidClaim(policyID) {
		return nil, models.ErrAlreadyClaimed
	}
	if !policyActiveAt(policy, now) {
		return nil, models.ErrPolicyNotActive
	}
	match, err := e.findMatch(policyID)
	if err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC()
	claim := &models.Claim{
		ID:               e.st.nextClaimID,
		PolicyID:         policyID,
		Claimant:         caller,
		Status:           models.ClaimPending,
		ClaimAmount:      payoutAmount(policy.CoverageAmount, match.condition.PayoutBps),
		WeatherType:      match.condition.WeatherType,
		TriggerValue:     match.observation.Value,
		ConditionIndex:   match.condition.ConditionIndex,
		ObservationIndex: match.observation.BlockIndex,
		SubmittedIndex:   now,
		CreatedAt:        createdAt,
		UpdatedAt:        createdAt,
	}

	e.st.nextClaimID++
	e.st.claims[claim.ID] = claim

	out := *claim
	return &out, nil
}

// ProcessClaim drives a pending claim to approved, re-running the condition
// evaluation against current oracle data first. A match recorded at
// submission that no longer holds moves the claim to rejected instead; the
// transition itself still succeeds. Administrator or the claimant may call.
func (e *Engine) ProcessClaim(caller string, claimID int64, now uint64) (*models.Claim, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	claim, ok := e.st.claims[claimID]
	if !ok {
		return nil, models.ErrClaimNotFound
	}
	if !e.isAdmin(caller) && caller != claim.Claimant {
		return nil, models.ErrNotAuthorized
	}
	if claim.Status != models.ClaimPending {
		return nil, fmt.Errorf("%w: claim %d is %s, expected pending", models.ErrInvalidParameters, claimID, claim.Status)
	}

	processed := now
	claim.ProcessedIndex = &processed
	claim.UpdatedAt = time.Now().UTC()

	if _, err := e.findMatch(claim.PolicyID); err != nil {
		reason := models.ErrorCode(models.ErrClaimConditionNotMet)
		claim.Status = models.ClaimRejected
		claim.RejectionReason = &reason
	} else {
		claim.Status = models.ClaimApproved
	}

	out := *claim
	return &out, nil
}

// PayClaim settles an approved claim: debits the treasury, marks the claim
// paid, and moves the policy to claimed. This is the only transition that
// writes policy status claimed. Administrator only; the external settlement
// collaborator executes the actual transfer.
func (e *Engine) PayClaim(caller string, claimID int64, now uint64) (*PaymentResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isAdmin(caller) {
		return nil, models.ErrNotAuthorized
	}
	claim, ok := e.st.claims[claimID]
	if !ok {
		return nil, models.ErrClaimNotFound
	}
	if claim.Status == models.ClaimPaid {
		return nil, models.ErrAlreadyClaimed
	}
	if claim.Status != models.ClaimApproved {
		return nil, fmt.Errorf("%w: claim %d is %s, expected approved", models.ErrInvalidParameters, claimID, claim.Status)
	}
	policy, ok := e.st.policies[claim.PolicyID]
	if !ok {
		return nil, models.ErrPolicyNotFound
	}
	if policy.Status == models.PolicyClaimed {
		return nil, models.ErrAlreadyClaimed
	}
	if e.st.treasury.Balance < claim.ClaimAmount {
		return nil, models.ErrPaymentFailed
	}

	paid := now
	claim.Status = models.ClaimPaid
	claim.PaidIndex = &paid
	claim.UpdatedAt = time.Now().UTC()
	policy.Status = models.PolicyClaimed
	policy.UpdatedAt = claim.UpdatedAt
	e.st.treasury.ClaimsPaid += claim.ClaimAmount
	e.st.treasury.Balance -= claim.ClaimAmount

	return &PaymentResult{Claim: *claim, Policy: *policy, Treasury: e.st.treasury}, nil
}

// GetClaim returns the claim record, or nil if unknown.
func (e *Engine) GetClaim(claimID int64) *models.Claim {
	e.mu.Lock()
	defer e.mu.Unlock()
	claim, ok := e.st.claims[claimID]
	if !ok {
		return nil
	}
	out := *claim
	return &out
}

// ClaimsByPolicy returns the policy's claims in id order.
func (e *Engine) ClaimsByPolicy(policyID int64) []models.Claim {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []models.Claim
	for id := int64(1); id < e.st.nextClaimID; id++ {
		if claim, ok := e.st.claims[id]; ok && claim.PolicyID == policyID {
			out = append(out, *claim)
		}
	}
	return out
}

// Claimable reports why a claim submitted right now would fail, or nil if it
// would be accepted. This is a pure read; SubmitClaim re-checks everything
// itself and never trusts this answer.
func (e *Engine) Claimable(policyID int64, now uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	policy, ok := e.st.policies[policyID]
	if !ok {
		return models.ErrPolicyNotFound
	}
	if policy.Status == models.PolicyClaimed || e.policyHasPaidClaim(policyID) {
		return models.ErrAlreadyClaimed
	}
	if !policyActiveAt(policy, now) {
		return models.ErrPolicyNotActive
	}
	if _, err := e.findMatch(policyID); err != nil {
		if errors.Is(err, models.ErrClaimConditionNotMet) {
			return models.ErrNotClaimableYet
		}
		return err
	}
	return nil
}

// IsClaimable is the boolean form of Claimable.
func (e *Engine) IsClaimable(policyID int64, now uint64) bool {
	return e.Claimable(policyID, now) == nil
}
