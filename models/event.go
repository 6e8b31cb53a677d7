package models

import "time"

// RSVP statuses.
const (
	RSVPGoing    = "going"
	RSVPNotGoing = "not_going"
)

// Event is a PTSA event members can RSVP to and volunteer for.
type Event struct {
	ID             string          `bson:"id" json:"id"`
	Title          string          `bson:"title" json:"title"`
	Description    string          `bson:"description,omitempty" json:"description,omitempty"`
	Location       string          `bson:"location,omitempty" json:"location,omitempty"`
	StartsAt       time.Time       `bson:"starts_at" json:"startsAt"`
	EndsAt         time.Time       `bson:"ends_at" json:"endsAt"`
	CreatedBy      string          `bson:"created_by" json:"createdBy"`
	VolunteerSlots []VolunteerSlot `bson:"volunteer_slots,omitempty" json:"volunteerSlots,omitempty"`
	CreatedAt      time.Time       `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `bson:"updated_at" json:"updatedAt"`
}

// VolunteerSlot is a named task within an event with limited capacity.
type VolunteerSlot struct {
	SlotID    string   `bson:"slot_id" json:"slotId"`
	Title     string   `bson:"title" json:"title"`
	Capacity  int      `bson:"capacity" json:"capacity"`
	MemberIDs []string `bson:"member_ids,omitempty" json:"memberIds,omitempty"`
}

// RSVP records one member's response to an event. Upserted per (event, member).
type RSVP struct {
	ID         string    `bson:"id" json:"id"`
	EventID    string    `bson:"event_id" json:"eventId"`
	MemberID   string    `bson:"member_id" json:"memberId"`
	Status     string    `bson:"status" json:"status"`
	GuestCount int       `bson:"guest_count" json:"guestCount"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}
