package models

import "time"

// AuditEvent is one structured entry in the audit trail.
type AuditEvent struct {
	ID        string            `bson:"id" json:"id"`
	Action    string            `bson:"action" json:"action"`
	MemberID  string            `bson:"member_id,omitempty" json:"memberId,omitempty"`
	TargetID  string            `bson:"target_id,omitempty" json:"targetId,omitempty"`
	IPAddress string            `bson:"ip_address,omitempty" json:"ipAddress,omitempty"`
	Details   map[string]string `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt time.Time         `bson:"created_at" json:"createdAt"`
}
