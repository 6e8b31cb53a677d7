package eventRepo

import "ptaconnect/models"

// EventRepository defines data access for events and RSVPs.
type EventRepository interface {
	// Create inserts a new event.
	Create(event *models.Event) error
	// GetByID retrieves an event by its ID.
	GetByID(id string) (*models.Event, error)
	// GetUpcoming returns events that have not yet ended, soonest first.
	GetUpcoming() ([]models.Event, error)
	// Update modifies an existing event.
	Update(event *models.Event) error
	// Delete removes an event.
	Delete(id string) error

	// UpsertRSVP creates or replaces the RSVP keyed by (event, member).
	UpsertRSVP(rsvp *models.RSVP) error
	// GetRSVPs returns all RSVPs for an event.
	GetRSVPs(eventID string) ([]models.RSVP, error)
	// GetRSVPsForMember returns all RSVPs a member has made.
	GetRSVPsForMember(memberID string) ([]models.RSVP, error)

	// JoinVolunteerSlot atomically adds a member to a slot if capacity
	// remains. Returns ErrSlotFull when the slot is at capacity.
	JoinVolunteerSlot(eventID, slotID, memberID string) error
	// LeaveVolunteerSlot removes a member from a slot.
	LeaveVolunteerSlot(eventID, slotID, memberID string) error
}
