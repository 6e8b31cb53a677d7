package models

import "time"

// Member roles, in ascending privilege order.
const (
	RoleMember = "member"
	RoleBoard  = "board"
	RoleAdmin  = "admin"
)

// Member represents a registered PTSA member.
type Member struct {
	ID               string     `bson:"id" json:"id"`
	Email            string     `bson:"email" json:"email"`
	PasswordHash     string     `bson:"password_hash" json:"-"`
	FirstName        string     `bson:"first_name" json:"firstName"`
	LastName         string     `bson:"last_name" json:"lastName"`
	Phone            string     `bson:"phone,omitempty" json:"phone,omitempty"`
	Address          string     `bson:"address,omitempty" json:"address,omitempty"`
	Role             string     `bson:"role" json:"role"`
	MembershipPaidAt *time.Time `bson:"membership_paid_at,omitempty" json:"membershipPaidAt,omitempty"`
	Devices          []Device   `bson:"devices,omitempty" json:"-"`
	Anonymized       bool       `bson:"anonymized,omitempty" json:"-"`
	CreatedAt        time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updatedAt"`
}

// Device is a registered client device that can receive push notifications.
type Device struct {
	DeviceID string    `bson:"device_id" json:"deviceId"`
	FCMToken string    `bson:"fcm_token,omitempty" json:"-"`
	LastSeen time.Time `bson:"last_seen" json:"lastSeen"`
}

// DirectoryEntry is the privacy-filtered view of a member exposed through the
// member directory. Fields the member has not opted into sharing stay empty.
type DirectoryEntry struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}
