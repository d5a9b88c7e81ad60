package event

// Lifecycle event kinds pushed to the notification queue.
const (
	EventPolicyIssued      = "policy_issued"
	EventPolicyCancelled   = "policy_cancelled"
	EventPolicyRenewed     = "policy_renewed"
	EventClaimApproved     = "claim_approved"
	EventClaimRejected     = "claim_rejected"
	EventClaimPaid         = "claim_paid"
	EventOracleDeactivated = "oracle_deactivated"
)

// LifecycleEvent is the message published for every policy/claim transition a
// downstream notifier cares about.
type LifecycleEvent struct {
	EventID    string         `json:"event_id"`
	Kind       string         `json:"kind"`
	Recipients []string       `json:"recipients,omitempty"`
	PolicyID   int64          `json:"policy_id,omitempty"`
	ClaimID    int64          `json:"claim_id,omitempty"`
	OracleID   string         `json:"oracle_id,omitempty"`
	BlockIndex uint64         `json:"block_index"`
	Data       map[string]any `json:"data,omitempty"`
}

const LifecycleQueue string = "insurance_lifecycle_events"
