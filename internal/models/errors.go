package models

import "errors"

// Engine failure kinds. Every mutating entry point validates all of its
// preconditions before touching state, so the first violated precondition is
// the whole outcome of the call. Services wrap these with %w; handlers map
// them with errors.Is.
var (
	ErrNotAuthorized         = errors.New("not authorized")
	ErrPolicyNotFound        = errors.New("policy not found")
	ErrPolicyExpired         = errors.New("policy expired")
	ErrPolicyNotActive       = errors.New("policy not active")
	ErrInsufficientPayment   = errors.New("insufficient payment")
	ErrInvalidRiskProfile    = errors.New("invalid risk profile")
	ErrInvalidCoverageAmount = errors.New("invalid coverage amount")
	ErrAlreadyClaimed        = errors.New("policy already claimed")
	ErrClaimNotFound         = errors.New("claim not found")
	ErrInvalidOracleData     = errors.New("invalid oracle data")
	ErrClaimConditionNotMet  = errors.New("claim condition not met")
	ErrOracleNotRegistered   = errors.New("oracle not registered")
	ErrNoOracleData          = errors.New("no oracle data")
	ErrInvalidParameters     = errors.New("invalid parameters")
	ErrNotClaimableYet       = errors.New("not claimable yet")
	ErrPaymentFailed         = errors.New("payment failed")
	ErrPolicyNotExpired      = errors.New("policy not expired")
)

// ErrorCode returns the stable machine-readable code for an engine failure,
// or "INTERNAL_ERROR" for anything outside the taxonomy.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotAuthorized):
		return "NOT_AUTHORIZED"
	case errors.Is(err, ErrPolicyNotFound):
		return "POLICY_NOT_FOUND"
	case errors.Is(err, ErrPolicyExpired):
		return "POLICY_EXPIRED"
	case errors.Is(err, ErrPolicyNotActive):
		return "POLICY_NOT_ACTIVE"
	case errors.Is(err, ErrInsufficientPayment):
		return "INSUFFICIENT_PAYMENT"
	case errors.Is(err, ErrInvalidRiskProfile):
		return "INVALID_RISK_PROFILE"
	case errors.Is(err, ErrInvalidCoverageAmount):
		return "INVALID_COVERAGE_AMOUNT"
	case errors.Is(err, ErrAlreadyClaimed):
		return "ALREADY_CLAIMED"
	case errors.Is(err, ErrClaimNotFound):
		return "CLAIM_NOT_FOUND"
	case errors.Is(err, ErrInvalidOracleData):
		return "INVALID_ORACLE_DATA"
	case errors.Is(err, ErrClaimConditionNotMet):
		return "CLAIM_CONDITION_NOT_MET"
	case errors.Is(err, ErrOracleNotRegistered):
		return "ORACLE_NOT_REGISTERED"
	case errors.Is(err, ErrNoOracleData):
		return "NO_ORACLE_DATA"
	case errors.Is(err, ErrInvalidParameters):
		return "INVALID_PARAMETERS"
	case errors.Is(err, ErrNotClaimableYet):
		return "NOT_CLAIMABLE_YET"
	case errors.Is(err, ErrPaymentFailed):
		return "PAYMENT_FAILED"
	case errors.Is(err, ErrPolicyNotExpired):
		return "POLICY_NOT_EXPIRED"
	}
	return "INTERNAL_ERROR"
}
