package models

import "time"

// Policy is a purchased coverage agreement. StartIndex/EndIndex are inclusive
// bounds on the monotonic block index; expiry is derived at read time and the
// stored status stays "active" after the window lapses.
type Policy struct {
	ID             int64        `json:"id" db:"id"`
	Holder         string       `json:"holder" db:"holder"`
	RiskProfileID  string       `json:"risk_profile_id" db:"risk_profile_id"`
	CoverageAmount int64        `json:"coverage_amount" db:"coverage_amount"`
	PremiumAmount  int64        `json:"premium_amount" db:"premium_amount"`
	StartIndex     uint64       `json:"start_index" db:"start_index"`
	EndIndex       uint64       `json:"end_index" db:"end_index"`
	Status         PolicyStatus `json:"status" db:"status"`
	RenewalCount   int          `json:"renewal_count" db:"renewal_count"`
	AutoRenew      bool         `json:"auto_renew" db:"auto_renew"`
	Location       string       `json:"location" db:"location"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// Duration returns the length of the current coverage window in block
// indices; renewal re-issues a window of the same length.
func (p *Policy) Duration() uint64 {
	return p.EndIndex - p.StartIndex
}
