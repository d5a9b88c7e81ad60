package models

import "time"

// ClaimCondition is a trigger rule attached to a policy. Conditions are
// keyed by (policy id, condition index) with indices contiguous from 0;
// evaluation walks them index-ascending and any one match makes a claim
// eligible for that condition's payout share.
type ClaimCondition struct {
	PolicyID       int64             `json:"policy_id" db:"policy_id"`
	ConditionIndex int               `json:"condition_index" db:"condition_index"`
	WeatherType    WeatherType       `json:"weather_type" db:"weather_type"`
	Operator       ThresholdOperator `json:"operator" db:"operator"`
	Threshold      int64             `json:"threshold" db:"threshold"`
	PayoutBps      int64             `json:"payout_bps" db:"payout_bps"`
	OracleID       string            `json:"oracle_id" db:"oracle_id"`
}

// Claim is a payout request under a policy. Lifecycle is
// pending -> approved -> paid, or pending -> rejected; paid and rejected are
// terminal. At most one claim per policy ever reaches paid.
type Claim struct {
	ID               int64       `json:"id" db:"id"`
	PolicyID         int64       `json:"policy_id" db:"policy_id"`
	Claimant         string      `json:"claimant" db:"claimant"`
	Status           ClaimStatus `json:"status" db:"status"`
	ClaimAmount      int64       `json:"claim_amount" db:"claim_amount"`
	WeatherType      WeatherType `json:"weather_type" db:"weather_type"`
	TriggerValue     int64       `json:"trigger_value" db:"trigger_value"`
	ConditionIndex   int         `json:"condition_index" db:"condition_index"`
	ObservationIndex uint64      `json:"observation_index" db:"observation_index"`
	SubmittedIndex   uint64      `json:"submitted_index" db:"submitted_index"`
	ProcessedIndex   *uint64     `json:"processed_index,omitempty" db:"processed_index"`
	PaidIndex        *uint64     `json:"paid_index,omitempty" db:"paid_index"`
	RejectionReason  *string     `json:"rejection_reason,omitempty" db:"rejection_reason"`
	CreatedAt        time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at" db:"updated_at"`
}
