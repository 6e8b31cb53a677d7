package event

import (
	"errors"
	"strings"
	"time"

	eventRepo "ptaconnect/database/repository/event"
	"ptaconnect/models"
	"ptaconnect/services/audit"
	"ptaconnect/utils"

	"github.com/google/uuid"
)

// ErrSlotFull mirrors the repository sentinel so handlers can map it to 409
// without importing the repository package.
var ErrSlotFull = eventRepo.ErrSlotFull

// CreateEventRequest is the payload for creating an event.
type CreateEventRequest struct {
	Title          string                 `json:"title"`
	Description    string                 `json:"description,omitempty"`
	Location       string                 `json:"location,omitempty"`
	StartsAt       time.Time              `json:"startsAt"`
	EndsAt         time.Time              `json:"endsAt"`
	VolunteerSlots []VolunteerSlotRequest `json:"volunteerSlots,omitempty"`
}

// VolunteerSlotRequest describes one volunteer task on a new event.
type VolunteerSlotRequest struct {
	Title    string `json:"title"`
	Capacity int    `json:"capacity"`
}

// EventService manages events, RSVPs and volunteer signups.
type EventService interface {
	// CreateEvent creates an event. Board/admin only at the route layer.
	CreateEvent(creatorID string, req CreateEventRequest) (*models.Event, error)
	// GetEvent retrieves an event.
	GetEvent(id string) (*models.Event, error)
	// ListUpcoming returns events that have not yet ended.
	ListUpcoming() ([]models.Event, error)
	// RSVP upserts a member's response to an event.
	RSVP(eventID, memberID, status string, guestCount int) (*models.RSVP, error)
	// Volunteer signs a member up for a slot; ErrSlotFull when at capacity.
	Volunteer(eventID, slotID, memberID string) error
	// WithdrawVolunteer removes a member from a slot.
	WithdrawVolunteer(eventID, slotID, memberID string) error
}

// DefaultEventService is the production implementation.
type DefaultEventService struct {
	Repo  eventRepo.EventRepository
	Audit audit.Logger
}

// CreateEvent creates an event.
func (s *DefaultEventService) CreateEvent(creatorID string, req CreateEventRequest) (*models.Event, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, utils.NewValidationError("Event title is required")
	}
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() || !req.EndsAt.After(req.StartsAt) {
		return nil, utils.NewValidationError("Event end must be after its start")
	}

	event := &models.Event{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Location:    req.Location,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		CreatedBy:   creatorID,
	}
	for _, slot := range req.VolunteerSlots {
		if strings.TrimSpace(slot.Title) == "" || slot.Capacity < 1 {
			return nil, utils.NewValidationError("Volunteer slots need a title and a positive capacity")
		}
		event.VolunteerSlots = append(event.VolunteerSlots, models.VolunteerSlot{
			SlotID:   uuid.New().String(),
			Title:    strings.TrimSpace(slot.Title),
			Capacity: slot.Capacity,
		})
	}

	if err := s.Repo.Create(event); err != nil {
		return nil, err
	}
	s.Audit.Log(models.AuditEvent{
		Action:   "event.created",
		MemberID: creatorID,
		TargetID: event.ID,
	})
	return event, nil
}

// GetEvent retrieves an event.
func (s *DefaultEventService) GetEvent(id string) (*models.Event, error) {
	return s.Repo.GetByID(id)
}

// ListUpcoming returns events that have not yet ended.
func (s *DefaultEventService) ListUpcoming() ([]models.Event, error) {
	return s.Repo.GetUpcoming()
}

// RSVP upserts a member's response to an event.
func (s *DefaultEventService) RSVP(eventID, memberID, status string, guestCount int) (*models.RSVP, error) {
	if status != models.RSVPGoing && status != models.RSVPNotGoing {
		return nil, utils.NewValidationError("Invalid RSVP status")
	}
	if guestCount < 0 || guestCount > 10 {
		return nil, utils.NewValidationError("Guest count must be between 0 and 10")
	}
	if _, err := s.Repo.GetByID(eventID); err != nil {
		return nil, err
	}

	rsvp := &models.RSVP{
		ID:         uuid.New().String(),
		EventID:    eventID,
		MemberID:   memberID,
		Status:     status,
		GuestCount: guestCount,
	}
	if err := s.Repo.UpsertRSVP(rsvp); err != nil {
		return nil, err
	}
	return rsvp, nil
}

// Volunteer signs a member up for a slot.
func (s *DefaultEventService) Volunteer(eventID, slotID, memberID string) error {
	err := s.Repo.JoinVolunteerSlot(eventID, slotID, memberID)
	if err != nil {
		if errors.Is(err, ErrSlotFull) {
			return ErrSlotFull
		}
		return err
	}
	s.Audit.Log(models.AuditEvent{
		Action:   "event.volunteer_joined",
		MemberID: memberID,
		TargetID: eventID,
		Details:  map[string]string{"slot_id": slotID},
	})
	return nil
}

// WithdrawVolunteer removes a member from a slot.
func (s *DefaultEventService) WithdrawVolunteer(eventID, slotID, memberID string) error {
	return s.Repo.LeaveVolunteerSlot(eventID, slotID, memberID)
}
