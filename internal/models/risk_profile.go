package models

import "time"

// RiskProfile is a premium-rate template. Rates are basis points; coverage
// bounds are inclusive.
type RiskProfile struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	BaseRateBps   int64     `json:"base_rate_bps" db:"base_rate_bps"`
	RiskFactorBps int64     `json:"risk_factor_bps" db:"risk_factor_bps"`
	MinCoverage   int64     `json:"min_coverage" db:"min_coverage"`
	MaxCoverage   int64     `json:"max_coverage" db:"max_coverage"`
	Description   string    `json:"description" db:"description"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
