package model

// Audit event types published on the policy.audit Kafka topic.
const (
	EventPolicyIssued     = "policy.issued"
	EventPolicyDownloaded = "policy.downloaded"
)

// PolicyEvent is the audit event emitted when a policy is issued or
// first downloaded. It is published to Kafka and archived by the audit
// consumer.
type PolicyEvent struct {
	Type         string `json:"type"`
	PolicyNo     string `json:"policy_no"`
	ReferenceID  string `json:"reference_id,omitempty"`
	TravelerName string `json:"traveler_name"`
	PlanName     string `json:"plan_name"`
	OwnerID      string `json:"owner_id,omitempty"`
	SessionID    string `json:"session_id"`
	Timestamp    string `json:"timestamp"` // RFC3339Nano, event time
}
