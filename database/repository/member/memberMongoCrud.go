package memberRepo

import (
	"fmt"
	"time"

	"ptaconnect/models"

	"go.mongodb.org/mongo-driver/bson"
)

// GetByID retrieves a member document by its ID.
func (r *MongoMemberRepo) GetByID(id string) (*models.Member, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var member models.Member
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&member); err != nil {
		return nil, fmt.Errorf("failed to get member with id %s: %w", id, err)
	}
	return &member, nil
}

// GetByEmail retrieves a member document by email.
func (r *MongoMemberRepo) GetByEmail(email string) (*models.Member, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var member models.Member
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&member); err != nil {
		return nil, fmt.Errorf("failed to get member with email %s: %w", email, err)
	}
	return &member, nil
}

// GetAll retrieves all member documents.
func (r *MongoMemberRepo) GetAll() ([]models.Member, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}
	return members, nil
}

// Create inserts a new member document.
func (r *MongoMemberRepo) Create(member *models.Member) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	member.CreatedAt = now
	member.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, member); err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

// Update modifies an existing member document.
func (r *MongoMemberRepo) Update(member *models.Member) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	member.UpdatedAt = time.Now()
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": member.ID}, bson.M{"$set": member})
	if err != nil {
		return fmt.Errorf("failed to update member with id %s: %w", member.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("member with id %s not found", member.ID)
	}
	return nil
}

// Delete removes a member document by its ID.
func (r *MongoMemberRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete member with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("member with id %s not found", id)
	}
	return nil
}

// Anonymize blanks personal fields while keeping the row.
func (r *MongoMemberRepo) Anonymize(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"email":         fmt.Sprintf("deleted-%s@removed.invalid", id),
			"first_name":    "Deleted",
			"last_name":     "Member",
			"password_hash": "",
			"anonymized":    true,
			"updated_at":    time.Now(),
		},
		"$unset": bson.M{
			"phone":   "",
			"address": "",
			"devices": "",
		},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to anonymize member with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("member with id %s not found", id)
	}
	return nil
}

// UpsertDevice adds a device entry or refreshes an existing one.
func (r *MongoMemberRepo) UpsertDevice(memberID string, device models.Device) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	// Pull any stale entry for the device before pushing the fresh one.
	pull := bson.M{"$pull": bson.M{"devices": bson.M{"device_id": device.DeviceID}}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": memberID}, pull); err != nil {
		return fmt.Errorf("failed to clear device for member %s: %w", memberID, err)
	}
	push := bson.M{
		"$push": bson.M{"devices": device},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": memberID}, push)
	if err != nil {
		return fmt.Errorf("failed to register device for member %s: %w", memberID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("member with id %s not found", memberID)
	}
	return nil
}
