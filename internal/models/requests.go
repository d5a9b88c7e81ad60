package models

// Request bodies for the mutating HTTP routes. Caller identity travels in
// the X-Caller-Id header, not the body.

type RegisterOracleRequest struct {
	ID       string         `json:"id"`
	Operator string         `json:"operator"`
	Name     string         `json:"name"`
	Category OracleCategory `json:"category"`
}

type SubmitObservationRequest struct {
	BlockIndex  uint64      `json:"block_index"`
	WeatherType WeatherType `json:"weather_type"`
	Location    string      `json:"location"`
	Value       int64       `json:"value"`
}

type DefineRiskProfileRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	BaseRateBps   int64  `json:"base_rate_bps"`
	RiskFactorBps int64  `json:"risk_factor_bps"`
	MinCoverage   int64  `json:"min_coverage"`
	MaxCoverage   int64  `json:"max_coverage"`
	Description   string `json:"description"`
}

type IssuePolicyRequest struct {
	RiskProfileID   string `json:"risk_profile_id"`
	CoverageAmount  int64  `json:"coverage_amount"`
	Location        string `json:"location"`
	DurationBlocks  uint64 `json:"duration_blocks"`
	AutoRenew       bool   `json:"auto_renew"`
	TenderedPayment int64  `json:"tendered_payment"`
}

type RenewPolicyRequest struct {
	TenderedPayment int64 `json:"tendered_payment"`
}

type AddConditionRequest struct {
	ConditionIndex int               `json:"condition_index"`
	WeatherType    WeatherType       `json:"weather_type"`
	Operator       ThresholdOperator `json:"operator"`
	Threshold      int64             `json:"threshold"`
	PayoutBps      int64             `json:"payout_bps"`
	OracleID       string            `json:"oracle_id"`
}

type SubmitClaimRequest struct {
	PolicyID int64 `json:"policy_id"`
}

// ClaimabilityResponse reports the outcome of the read-only claimable check.
// Reason carries the error code that submit_claim would fail with right now;
// callers must not treat a positive answer as a guarantee, submit_claim
// re-checks independently.
type ClaimabilityResponse struct {
	PolicyID  int64  `json:"policy_id"`
	Claimable bool   `json:"claimable"`
	Reason    string `json:"reason,omitempty"`
}
