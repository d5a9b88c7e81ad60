package engine

import (
	"insurance-service/internal/models"
)

// AddCondition attaches a trigger rule to a policy. Holder only, while the
// stored status is still active, the window has not lapsed, and no claim has
// been filed yet. Indices must be contiguous from 0, so the new index must
// equal the current condition count.
func (e *Engine) AddCondition(caller string, policyID int64, conditionIndex int, weatherType models.WeatherType, operator models.ThresholdOperator, threshold, payoutBps int64, oracleID string, now uint64) (*models.ClaimCondition, error) {
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
	if now > policy.EndIndex {
		return nil, models.ErrPolicyExpired
	}
	if e.policyHasClaim(policyID) {
		return nil, models.ErrAlreadyClaimed
	}
	if weatherType == "" || !operator.IsValid() {
		return nil, models.ErrInvalidParameters
	}
	if payoutBps < 0 || payoutBps > 10000 {
		return nil, models.ErrInvalidParameters
	}
	if conditionIndex != len(e.st.conditions[policyID]) {
		return nil, models.ErrInvalidParameters
	}
	oracle, ok := e.st.oracles[oracleID]
	if !ok || !oracle.Active {
		return nil, models.ErrInvalidParameters
	}

	condition := models.ClaimCondition{
		PolicyID:       policyID,
		ConditionIndex: conditionIndex,
		WeatherType:    weatherType,
		Operator:       operator,
		Threshold:      threshold,
		PayoutBps:      payoutBps,
		OracleID:       oracleID,
	}
	e.st.conditions[policyID] = append(e.st.conditions[policyID], condition)

	out := condition
	return &out, nil
}

// GetConditions returns the policy's conditions in index order.
func (e *Engine) GetConditions(policyID int64) []models.ClaimCondition {
	e.mu.Lock()
	defer e.mu.Unlock()
	conds := e.st.conditions[policyID]
	out := make([]models.ClaimCondition, len(conds))
	copy(out, conds)
	return out
}

// EvaluateConditions applies each of the policy's conditions of the matching
// weather type to the observed value, index-ascending, and returns the first
// match. Evaluation order is significant: two implementations fed the same
// state must select the same condition.
func (e *Engine) EvaluateConditions(policyID int64, observedValue int64, weatherType models.WeatherType) (*models.ClaimCondition, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, cond := range e.st.conditions[policyID] {
		if cond.WeatherType != weatherType {
			continue
		}
		if checkThreshold(observedValue, cond.Threshold, cond.Operator) {
			out := cond
			return &out, true
		}
	}
	return nil, false
}

func checkThreshold(value, threshold int64, operator models.ThresholdOperator) bool {
	switch operator {
	case models.ThresholdGT:
		return value > threshold
	case models.ThresholdLT:
		return value < threshold
	case models.ThresholdEQ:
		return value == threshold
	case models.ThresholdGTE:
		return value >= threshold
	case models.ThresholdLTE:
		return value <= threshold
	}
	return false
}

// matchResult pairs a satisfied condition with the observation that
// triggered it.
type matchResult struct {
	condition   models.ClaimCondition
	observation models.Observation
}

// findMatch evaluates every condition of the policy against the latest
// observation of that condition's own oracle. Returns ErrNoOracleData when no
// referenced oracle has submitted anything, ErrClaimConditionNotMet when data
// exists but nothing matches. Caller holds the mutex.
func (e *Engine) findMatch(policyID int64) (*matchResult, error) {
	sawData := false
	for _, cond := range e.st.conditions[policyID] {
		obs := e.latestObservation(cond.OracleID)
		if obs == nil {
			continue
		}
		sawData = true
		if obs.WeatherType != cond.WeatherType {
			continue
		}
		if checkThreshold(obs.Value, cond.Threshold, cond.Operator) {
			return &matchResult{condition: cond, observation: *obs}, nil
		}
	}
	if !sawData && len(e.st.conditions[policyID]) > 0 {
		return nil, models.ErrNoOracleData
	}
	return nil, models.ErrClaimConditionNotMet
}
