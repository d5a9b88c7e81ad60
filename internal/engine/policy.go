package engine

import (
	"time"

	"insurance-service/internal/models"
)

// IssueResult carries everything a successful issuance changed, so the
// persistence layer can write the batch in one transaction.
type IssueResult struct {
	Policy   models.Policy
	Treasury models.Treasury
}

// IssuePolicy creates an active policy for the caller. tenderedPayment is the
// amount the external payment collaborator already collected; the engine only
// verifies it covers the premium and credits the premium (not the tender) to
// the treasury.
func (e *Engine) IssuePolicy(caller, profileID string, coverageAmount int64, location string, durationBlocks uint64, autoRenew bool, tenderedPayment int64, now uint64) (*IssueResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if caller == "" || durationBlocks == 0 {
		return nil, models.ErrInvalidParameters
	}
	profile, ok := e.st.profiles[profileID]
	if !ok {
		return nil, models.ErrInvalidRiskProfile
	}
	if !ValidateCoverage(profile, coverageAmount) {
		return nil, models.ErrInvalidCoverageAmount
	}
	premium, err := premiumFor(profile, coverageAmount)
	if err != nil {
		return nil, err
	}
	if tenderedPayment < premium {
		return nil, models.ErrInsufficientPayment
	}

	createdAt := time.Now().UTC()
	policy := &models.Policy{
		ID:             e.st.nextPolicyID,
		Holder:         caller,
		RiskProfileID:  profileID,
		CoverageAmount: coverageAmount,
		PremiumAmount:  premium,
		StartIndex:     now,
		EndIndex:       now + durationBlocks,
		Status:         models.PolicyActive,
		AutoRenew:      autoRenew,
		Location:       location,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}

	e.st.nextPolicyID++
	e.st.policies[policy.ID] = policy
	e.st.holderPolicies[caller] = append(e.st.holderPolicies[caller], policy.ID)
	e.st.treasury.PremiumsCollected += premium
	e.st.treasury.Balance += premium

	return &IssueResult{Policy: *policy, Treasury: e.st.treasury}, nil
}

// CancelPolicy moves an active policy to cancelled. Holder only.
func (e *Engine) CancelPolicy(caller string, policyID int64, now uint64) (*models.Policy, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	policy, ok := e.st.policies[policyID]
	if !ok {
		return nil, models.ErrPolicyNotFound
	}
	if caller != policy.Holder {
		return nil, models.ErrNotAuthorized
	}
	if !policyActiveAt(policy, now) {
		return nil, models.ErrPolicyNotActive
	}

	policy.Status = models.PolicyCancelled
	policy.UpdatedAt = time.Now().UTC()

	out := *policy
	return &out, nil
}

// RenewPolicy extends an auto-renew policy whose window has lapsed into a new
// window of the same length starting now. Premium is recomputed at the
// profile's current rates and a fresh tendered payment must cover it.
func (e *Engine) RenewPolicy(caller string, policyID int64, tenderedPayment int64, now uint64) (*IssueResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	policy, ok := e.st.policies[policyID]
	if !ok {
		return nil, models.ErrPolicyNotFound
	}
	if caller != policy.Holder {
		return nil, models.ErrNotAuthorized
	}
	if policy.Status != models.PolicyActive {
		return nil, models.ErrPolicyNotActive
	}
	if !policy.AutoRenew {
		return nil, models.ErrInvalidParameters
	}
	if now < policy.EndIndex {
		return nil, models.ErrPolicyNotExpired
	}
	profile, ok := e.st.profiles[policy.RiskProfileID]
	if !ok {
		return nil, models.ErrInvalidRiskProfile
	}
	premium, err := premiumFor(profile, policy.CoverageAmount)
	if err != nil {
		return nil, err
	}
	if tenderedPayment < premium {
		return nil, models.ErrInsufficientPayment
	}

	duration := policy.Duration()
	policy.StartIndex = now
	policy.EndIndex = now + duration
	policy.PremiumAmount = premium
	policy.RenewalCount++
	policy.UpdatedAt = time.Now().UTC()
	e.st.treasury.PremiumsCollected += premium
	e.st.treasury.Balance += premium

	return &IssueResult{Policy: *policy, Treasury: e.st.treasury}, nil
}

// IsPolicyActive derives liveness at the given index: stored status must be
// active AND the index must sit inside [start, end]. Expiry is never written
// back to the record, so callers use this predicate, not the stored field.
func (e *Engine) IsPolicyActive(policyID int64, now uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	policy, ok := e.st.policies[policyID]
	return ok && policyActiveAt(policy, now)
}

func policyActiveAt(policy *models.Policy, now uint64) bool {
	return policy.Status == models.PolicyActive &&
		now >= policy.StartIndex && now <= policy.EndIndex
}

// GetPolicy returns the policy record, or nil if unknown.
func (e *Engine) GetPolicy(policyID int64) *models.Policy {
	e.mu.Lock()
	defer e.mu.Unlock()
	policy, ok := e.st.policies[policyID]
	if !ok {
		return nil
	}
	out := *policy
	return &out
}

// PoliciesByHolder returns the ids of every policy the holder has ever been
// issued, in issuance order.
func (e *Engine) PoliciesByHolder(holder string) []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	ids := e.st.holderPolicies[holder]
	out := make([]int64, len(ids))
	copy(out, ids)
	return out
}
