package consentRepo

import "ptaconnect/models"

// ConsentRepository defines data access for consent records and child
// accounts. Consent records are append-only; the newest row wins.
type ConsentRepository interface {
	// InsertRecord appends a new consent record. Existing rows are never
	// modified.
	InsertRecord(record *models.ConsentRecord) error
	// LatestRecord returns the newest record for a (member, type) pair, or a
	// not-found error if none exists.
	LatestRecord(memberID, consentType string) (*models.ConsentRecord, error)
	// RecordsForMember returns all consent records for a member, newest first.
	RecordsForMember(memberID string) ([]models.ConsentRecord, error)
	// UpsertChildAccount creates or replaces the child account row keyed by
	// child member ID.
	UpsertChildAccount(account *models.ChildAccount) error
	// GetChildAccount returns the child account row for a child member.
	GetChildAccount(childMemberID string) (*models.ChildAccount, error)
}
