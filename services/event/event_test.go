package event

import (
	"testing"
	"time"

	eventRepo "ptaconnect/database/repository/event"
	"ptaconnect/models"
	"ptaconnect/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeEventRepo is an in-memory EventRepository with capacity-checked
// volunteer slots.
type fakeEventRepo struct {
	events map[string]*models.Event
	rsvps  map[string]*models.RSVP // keyed event:member
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		events: make(map[string]*models.Event),
		rsvps:  make(map[string]*models.RSVP),
	}
}

func (r *fakeEventRepo) Create(event *models.Event) error {
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) GetByID(id string) (*models.Event, error) {
	if e, ok := r.events[id]; ok {
		return e, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeEventRepo) GetUpcoming() ([]models.Event, error) { return nil, nil }
func (r *fakeEventRepo) Update(event *models.Event) error {
	r.events[event.ID] = event
	return nil
}
func (r *fakeEventRepo) Delete(id string) error {
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) UpsertRSVP(rsvp *models.RSVP) error {
	r.rsvps[rsvp.EventID+":"+rsvp.MemberID] = rsvp
	return nil
}

func (r *fakeEventRepo) GetRSVPs(string) ([]models.RSVP, error)          { return nil, nil }
func (r *fakeEventRepo) GetRSVPsForMember(string) ([]models.RSVP, error) { return nil, nil }

func (r *fakeEventRepo) JoinVolunteerSlot(eventID, slotID, memberID string) error {
	event, ok := r.events[eventID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i := range event.VolunteerSlots {
		slot := &event.VolunteerSlots[i]
		if slot.SlotID != slotID {
			continue
		}
		for _, id := range slot.MemberIDs {
			if id == memberID {
				return nil // already signed up
			}
		}
		if len(slot.MemberIDs) >= slot.Capacity {
			return eventRepo.ErrSlotFull
		}
		slot.MemberIDs = append(slot.MemberIDs, memberID)
		return nil
	}
	return mongo.ErrNoDocuments
}

func (r *fakeEventRepo) LeaveVolunteerSlot(eventID, slotID, memberID string) error {
	event, ok := r.events[eventID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for i := range event.VolunteerSlots {
		slot := &event.VolunteerSlots[i]
		if slot.SlotID != slotID {
			continue
		}
		var kept []string
		for _, id := range slot.MemberIDs {
			if id != memberID {
				kept = append(kept, id)
			}
		}
		slot.MemberIDs = kept
	}
	return nil
}

type nopAudit struct{}

func (nopAudit) Log(models.AuditEvent) {}

func newTestService() (*DefaultEventService, *fakeEventRepo) {
	repo := newFakeEventRepo()
	return &DefaultEventService{Repo: repo, Audit: nopAudit{}}, repo
}

func validRequest() CreateEventRequest {
	start := time.Now().Add(72 * time.Hour)
	return CreateEventRequest{
		Title:    "Fall Carnival",
		Location: "School gym",
		StartsAt: start,
		EndsAt:   start.Add(3 * time.Hour),
		VolunteerSlots: []VolunteerSlotRequest{
			{Title: "Ticket booth", Capacity: 2},
		},
	}
}

func TestCreateEventAssignsSlotIDs(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	event, err := svc.CreateEvent("board-1", validRequest())
	require.NoError(t, err)
	require.Len(t, event.VolunteerSlots, 1)
	assert.NotEmpty(t, event.VolunteerSlots[0].SlotID)
	assert.Equal(t, 2, event.VolunteerSlots[0].Capacity)
	assert.Equal(t, "board-1", event.CreatedBy)
}

func TestCreateEventValidation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	req := validRequest()
	req.Title = "   "
	_, err := svc.CreateEvent("board-1", req)
	var vErr utils.ValidationError
	assert.ErrorAs(t, err, &vErr)

	req = validRequest()
	req.EndsAt = req.StartsAt.Add(-time.Hour)
	_, err = svc.CreateEvent("board-1", req)
	assert.ErrorAs(t, err, &vErr)

	req = validRequest()
	req.VolunteerSlots = []VolunteerSlotRequest{{Title: "Setup", Capacity: 0}}
	_, err = svc.CreateEvent("board-1", req)
	assert.ErrorAs(t, err, &vErr)
}

func TestRSVPBounds(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	event, err := svc.CreateEvent("board-1", validRequest())
	require.NoError(t, err)

	_, err = svc.RSVP(event.ID, "member-1", "maybe", 0)
	var vErr utils.ValidationError
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.RSVP(event.ID, "member-1", models.RSVPGoing, 11)
	assert.ErrorAs(t, err, &vErr)

	rsvp, err := svc.RSVP(event.ID, "member-1", models.RSVPGoing, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, rsvp.GuestCount)
}

func TestRSVPUpsertsPerMember(t *testing.T) {
	t.Parallel()
	svc, repo := newTestService()
	event, err := svc.CreateEvent("board-1", validRequest())
	require.NoError(t, err)

	_, err = svc.RSVP(event.ID, "member-1", models.RSVPGoing, 2)
	require.NoError(t, err)
	_, err = svc.RSVP(event.ID, "member-1", models.RSVPNotGoing, 0)
	require.NoError(t, err)

	stored := repo.rsvps[event.ID+":member-1"]
	require.NotNil(t, stored)
	assert.Equal(t, models.RSVPNotGoing, stored.Status)
	assert.Len(t, repo.rsvps, 1, "one row per (event, member)")
}

func TestVolunteerCapacityEnforced(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	event, err := svc.CreateEvent("board-1", validRequest())
	require.NoError(t, err)
	slotID := event.VolunteerSlots[0].SlotID

	require.NoError(t, svc.Volunteer(event.ID, slotID, "member-1"))
	require.NoError(t, svc.Volunteer(event.ID, slotID, "member-2"))

	err = svc.Volunteer(event.ID, slotID, "member-3")
	assert.ErrorIs(t, err, ErrSlotFull)

	// Signing up twice is idempotent, not a capacity failure.
	assert.NoError(t, svc.Volunteer(event.ID, slotID, "member-1"))
}

func TestWithdrawFreesCapacity(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	event, err := svc.CreateEvent("board-1", validRequest())
	require.NoError(t, err)
	slotID := event.VolunteerSlots[0].SlotID

	require.NoError(t, svc.Volunteer(event.ID, slotID, "member-1"))
	require.NoError(t, svc.Volunteer(event.ID, slotID, "member-2"))
	require.NoError(t, svc.WithdrawVolunteer(event.ID, slotID, "member-1"))
	assert.NoError(t, svc.Volunteer(event.ID, slotID, "member-3"))
}
