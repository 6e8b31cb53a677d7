package member

import (
	memberRepo "ptaconnect/database/repository/member"
	privacyRepo "ptaconnect/database/repository/privacy"
	"ptaconnect/models"
	"ptaconnect/services/audit"
)

// RegistrationRequest is the payload for creating a member account.
type RegistrationRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
}

// AuthResponse contains the member's ID, token, and display details.
type AuthResponse struct {
	ID        string `json:"id"`
	Token     string `json:"token"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// MemberService manages member accounts and the privacy-filtered directory.
type MemberService interface {
	// Register creates a member with restrictive default privacy settings
	// and returns a signed token.
	Register(req RegistrationRequest) (*AuthResponse, error)
	// Authenticate checks credentials and returns a signed token.
	Authenticate(email, password string) (*AuthResponse, error)
	// GetMemberByID retrieves a member.
	GetMemberByID(id string) (*models.Member, error)
	// UpdateProfile applies allowed profile changes.
	UpdateProfile(memberID string, updates ProfileUpdate) (*models.Member, error)
	// Directory lists members who opted into the directory, with each entry
	// filtered down to the fields that member chose to show.
	Directory() ([]models.DirectoryEntry, error)
	// RegisterDevice records a push-capable device for a member.
	RegisterDevice(memberID string, device models.Device) error
	// SetRole changes a member's role. Admin-only at the route layer.
	SetRole(memberID, role string) error
}

// ProfileUpdate is the allow-listed set of mutable profile fields.
type ProfileUpdate struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
}

// DefaultMemberService is the production implementation.
type DefaultMemberService struct {
	Repo        memberRepo.MemberRepository
	PrivacyRepo privacyRepo.PrivacyRepository
	Audit       audit.Logger
}
