package engine

import (
	"math"
	"math/bits"
	"time"

	"insurance-service/internal/models"
)

// DefineRiskProfile registers a premium-rate template. Administrator only.
func (e *Engine) DefineRiskProfile(caller, id, name string, baseRateBps, riskFactorBps, minCoverage, maxCoverage int64, description string) (*models.RiskProfile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.isAdmin(caller) {
		return nil, models.ErrNotAuthorized
	}
	if id == "" || baseRateBps < 0 || riskFactorBps < 0 {
		return nil, models.ErrInvalidParameters
	}
	if minCoverage < 0 || minCoverage > maxCoverage {
		return nil, models.ErrInvalidParameters
	}
	if _, exists := e.st.profiles[id]; exists {
		return nil, models.ErrInvalidParameters
	}

	profile := &models.RiskProfile{
		ID:            id,
		Name:          name,
		BaseRateBps:   baseRateBps,
		RiskFactorBps: riskFactorBps,
		MinCoverage:   minCoverage,
		MaxCoverage:   maxCoverage,
		Description:   description,
		CreatedAt:     time.Now().UTC(),
	}
	e.st.profiles[id] = profile

	out := *profile
	return &out, nil
}

// GetRiskProfile returns the profile, or nil if unknown.
func (e *Engine) GetRiskProfile(id string) *models.RiskProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	profile, ok := e.st.profiles[id]
	if !ok {
		return nil
	}
	out := *profile
	return &out
}

// CalculatePremium prices coverage under a profile:
// floor(coverage * (base rate + risk factor) / 10000). Floor division is
// load-bearing; every implementation must produce the identical amount.
func (e *Engine) CalculatePremium(profileID string, coverageAmount int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	profile, ok := e.st.profiles[profileID]
	if !ok {
		return 0, models.ErrInvalidRiskProfile
	}
	return premiumFor(profile, coverageAmount)
}

// premiumFor computes the product in 128 bits so extreme rate/coverage
// combinations cannot wrap int64 into a negative premium. Rates are not
// capped at definition time, so the guard has to sit here; a premium that
// does not fit in int64 fails InvalidCoverageAmount.
func premiumFor(profile *models.RiskProfile, coverageAmount int64) (int64, error) {
	if coverageAmount < 0 {
		return 0, models.ErrInvalidCoverageAmount
	}
	rate := uint64(profile.BaseRateBps) + uint64(profile.RiskFactorBps)
	hi, lo := bits.Mul64(uint64(coverageAmount), rate)
	if hi >= 10000 {
		return 0, models.ErrInvalidCoverageAmount
	}
	premium, _ := bits.Div64(hi, lo, 10000)
	if premium > math.MaxInt64 {
		return 0, models.ErrInvalidCoverageAmount
	}
	return int64(premium), nil
}

// ValidateCoverage reports whether the amount sits inside the profile's
// inclusive coverage bounds.
func ValidateCoverage(profile *models.RiskProfile, coverageAmount int64) bool {
	return coverageAmount >= profile.MinCoverage && coverageAmount <= profile.MaxCoverage
}
