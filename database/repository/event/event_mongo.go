package eventRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ptaconnect/database"
	"ptaconnect/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrSlotFull signals a volunteer slot at capacity.
var ErrSlotFull = errors.New("volunteer slot is full")

// NewMongoEventRepo constructs a repository over the event collections.
func NewMongoEventRepo() *MongoEventRepo {
	return &MongoEventRepo{
		events: database.DB().Collection("events"),
		rsvps:  database.DB().Collection("rsvps"),
	}
}

// MongoEventRepo is the MongoDB implementation of EventRepository.
type MongoEventRepo struct {
	events *mongo.Collection
	rsvps  *mongo.Collection
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new event.
func (r *MongoEventRepo) Create(event *models.Event) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	if _, err := r.events.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by its ID.
func (r *MongoEventRepo) GetByID(id string) (*models.Event, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var event models.Event
	if err := r.events.FindOne(ctx, bson.M{"id": id}).Decode(&event); err != nil {
		return nil, fmt.Errorf("failed to get event with id %s: %w", id, err)
	}
	return &event, nil
}

// GetUpcoming returns events that have not yet ended, soonest first.
func (r *MongoEventRepo) GetUpcoming() ([]models.Event, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{"ends_at": bson.M{"$gte": time.Now()}}
	opts := options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}})
	cursor, err := r.events.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

// Update modifies an existing event.
func (r *MongoEventRepo) Update(event *models.Event) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	event.UpdatedAt = time.Now()
	result, err := r.events.UpdateOne(ctx, bson.M{"id": event.ID}, bson.M{"$set": event})
	if err != nil {
		return fmt.Errorf("failed to update event with id %s: %w", event.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("event with id %s not found", event.ID)
	}
	return nil
}

// Delete removes an event.
func (r *MongoEventRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.events.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete event with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("event with id %s not found", id)
	}
	return nil
}

// UpsertRSVP creates or replaces the RSVP keyed by (event, member).
func (r *MongoEventRepo) UpsertRSVP(rsvp *models.RSVP) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	rsvp.UpdatedAt = now
	if rsvp.CreatedAt.IsZero() {
		rsvp.CreatedAt = now
	}

	filter := bson.M{"event_id": rsvp.EventID, "member_id": rsvp.MemberID}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.rsvps.ReplaceOne(ctx, filter, rsvp, opts); err != nil {
		return fmt.Errorf("failed to upsert rsvp for event %s: %w", rsvp.EventID, err)
	}
	return nil
}

// GetRSVPs returns all RSVPs for an event.
func (r *MongoEventRepo) GetRSVPs(eventID string) ([]models.RSVP, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.rsvps.Find(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps for event %s: %w", eventID, err)
	}
	defer cursor.Close(ctx)

	var rsvps []models.RSVP
	if err := cursor.All(ctx, &rsvps); err != nil {
		return nil, fmt.Errorf("failed to decode rsvps: %w", err)
	}
	return rsvps, nil
}

// GetRSVPsForMember returns all RSVPs a member has made.
func (r *MongoEventRepo) GetRSVPsForMember(memberID string) ([]models.RSVP, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.rsvps.Find(ctx, bson.M{"member_id": memberID})
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps for member %s: %w", memberID, err)
	}
	defer cursor.Close(ctx)

	var rsvps []models.RSVP
	if err := cursor.All(ctx, &rsvps); err != nil {
		return nil, fmt.Errorf("failed to decode rsvps: %w", err)
	}
	return rsvps, nil
}

// joinSlotFilter matches the event only while the slot still has a free seat
// and the member is not yet signed up. Array index capacity-1 existing means
// the slot is full, so the guard lives in the query and concurrent signups for
// the last seat cannot both match.
func joinSlotFilter(eventID, slotID, memberID string, capacity int) bson.M {
	return bson.M{
		"id": eventID,
		"volunteer_slots": bson.M{
			"$elemMatch": bson.M{
				"slot_id":    slotID,
				"member_ids": bson.M{"$ne": memberID},
				fmt.Sprintf("member_ids.%d", capacity-1): bson.M{"$exists": false},
			},
		},
	}
}

// JoinVolunteerSlot adds a member to a slot if capacity remains. The update
// filter carries both the duplicate and the capacity guard; the read up front
// only resolves the slot's capacity and the common already-signed-up and
// already-full cases.
func (r *MongoEventRepo) JoinVolunteerSlot(eventID, slotID, memberID string) error {
	event, err := r.GetByID(eventID)
	if err != nil {
		return err
	}

	capacity := 0
	found := false
	for _, slot := range event.VolunteerSlots {
		if slot.SlotID != slotID {
			continue
		}
		found = true
		capacity = slot.Capacity
		for _, id := range slot.MemberIDs {
			if id == memberID {
				return nil // already signed up, idempotent
			}
		}
		if len(slot.MemberIDs) >= slot.Capacity {
			return ErrSlotFull
		}
	}
	if !found {
		return fmt.Errorf("volunteer slot %s not found on event %s", slotID, eventID)
	}

	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$addToSet": bson.M{"volunteer_slots.$.member_ids": memberID},
		"$set":      bson.M{"updated_at": time.Now()},
	}
	result, err := r.events.UpdateOne(ctx, joinSlotFilter(eventID, slotID, memberID, capacity), update)
	if err != nil {
		return fmt.Errorf("failed to join volunteer slot %s: %w", slotID, err)
	}
	if result.ModifiedCount == 0 {
		// Lost a race since the read above: either the slot filled up or a
		// concurrent request signed this member up. Re-read to tell them apart.
		current, err := r.GetByID(eventID)
		if err != nil {
			return err
		}
		for _, slot := range current.VolunteerSlots {
			if slot.SlotID != slotID {
				continue
			}
			for _, id := range slot.MemberIDs {
				if id == memberID {
					return nil
				}
			}
		}
		return ErrSlotFull
	}
	return nil
}

// LeaveVolunteerSlot removes a member from a slot.
func (r *MongoEventRepo) LeaveVolunteerSlot(eventID, slotID, memberID string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": eventID, "volunteer_slots.slot_id": slotID}
	update := bson.M{
		"$pull": bson.M{"volunteer_slots.$.member_ids": memberID},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	result, err := r.events.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to leave volunteer slot %s: %w", slotID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("volunteer slot %s not found on event %s", slotID, eventID)
	}
	return nil
}
