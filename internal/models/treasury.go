package models

// Treasury tracks aggregate value flow. Issuance credits premiums, claim
// payment debits; the balance never goes negative because pay_claim checks
// it before debiting. Actual value movement is an external collaborator.
type Treasury struct {
	PremiumsCollected int64 `json:"premiums_collected" db:"premiums_collected"`
	ClaimsPaid        int64 `json:"claims_paid" db:"claims_paid"`
	Balance           int64 `json:"balance" db:"balance"`
}
