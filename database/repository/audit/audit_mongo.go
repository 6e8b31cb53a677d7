package auditRepo

import (
	"context"
	"fmt"
	"time"

	"ptaconnect/database"
	"ptaconnect/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditRepository defines data access for the audit trail.
type AuditRepository interface {
	// Insert appends one audit event.
	Insert(event *models.AuditEvent) error
	// ForMember returns recent audit events for a member, newest first.
	ForMember(memberID string, limit int) ([]models.AuditEvent, error)
}

// NewMongoAuditRepo constructs a repository over the audit_logs collection.
func NewMongoAuditRepo() *MongoAuditRepo {
	return &MongoAuditRepo{
		coll: database.DB().Collection("audit_logs"),
	}
}

// MongoAuditRepo is the MongoDB implementation of AuditRepository.
type MongoAuditRepo struct {
	coll *mongo.Collection
}

// Insert appends one audit event.
func (r *MongoAuditRepo) Insert(event *models.AuditEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}
	return nil
}

// ForMember returns recent audit events for a member, newest first.
func (r *MongoAuditRepo) ForMember(memberID string, limit int) ([]models.AuditEvent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{"member_id": memberID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events for member %s: %w", memberID, err)
	}
	defer cursor.Close(ctx)

	var events []models.AuditEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode audit events: %w", err)
	}
	return events, nil
}
