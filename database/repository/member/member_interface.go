package memberRepo

import "ptaconnect/models"

// MemberRepository defines methods for member data access.
type MemberRepository interface {
	// GetByID retrieves a member by its unique ID.
	GetByID(id string) (*models.Member, error)
	// GetByEmail retrieves a member by email address.
	GetByEmail(email string) (*models.Member, error)
	// GetAll retrieves all members.
	GetAll() ([]models.Member, error)
	// Create inserts a new member record.
	Create(member *models.Member) error
	// Update modifies an existing member record.
	Update(member *models.Member) error
	// Delete removes a member record by its ID.
	Delete(id string) error
	// Anonymize blanks personal fields on a member record, keeping the row
	// for referential integrity of payments and audit history.
	Anonymize(id string) error
	// UpsertDevice adds or refreshes a device entry on a member.
	UpsertDevice(memberID string, device models.Device) error
}
