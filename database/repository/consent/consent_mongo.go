package consentRepo

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

// NewMongoConsentRepo constructs a repository over the consent collections.
func NewMongoConsentRepo() *MongoConsentRepo {
	return &MongoConsentRepo{
		records:  database.DB().Collection("consent_records"),
		children: database.DB().Collection("child_accounts"),
	}
}

// MongoConsentRepo is the MongoDB implementation of ConsentRepository.
type MongoConsentRepo struct {
	records  *mongo.Collection
	children *mongo.Collection
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// InsertRecord appends a new consent record.
func (r *MongoConsentRepo) InsertRecord(record *models.ConsentRecord) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	record.CreatedAt = time.Now()
	if _, err := r.records.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to insert consent record: %w", err)
	}
	return nil
}

// LatestRecord returns the newest record for a (member, type) pair. Callers
// treat mongo.ErrNoDocuments as "no consent on file" rather than a failure.
func (r *MongoConsentRepo) LatestRecord(memberID, consentType string) (*models.ConsentRecord, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	filter := bson.M{"member_id": memberID, "consent_type": consentType}

	var record models.ConsentRecord
	if err := r.records.FindOne(ctx, filter, opts).Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to get consent record for member %s: %w", memberID, err)
	}
	return &record, nil
}

// RecordsForMember returns all consent records for a member, newest first.
func (r *MongoConsentRepo) RecordsForMember(memberID string) ([]models.ConsentRecord, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.records.Find(ctx, bson.M{"member_id": memberID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list consent records for member %s: %w", memberID, err)
	}
	defer cursor.Close(ctx)

	var records []models.ConsentRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode consent records: %w", err)
	}
	return records, nil
}

// UpsertChildAccount creates or replaces the child account row.
func (r *MongoConsentRepo) UpsertChildAccount(account *models.ChildAccount) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	account.UpdatedAt = time.Now()
	filter := bson.M{"child_member_id": account.ChildMemberID}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.children.ReplaceOne(ctx, filter, account, opts); err != nil {
		return fmt.Errorf("failed to upsert child account for %s: %w", account.ChildMemberID, err)
	}
	return nil
}

// GetChildAccount returns the child account row for a child member.
func (r *MongoConsentRepo) GetChildAccount(childMemberID string) (*models.ChildAccount, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var account models.ChildAccount
	if err := r.children.FindOne(ctx, bson.M{"child_member_id": childMemberID}).Decode(&account); err != nil {
		return nil, fmt.Errorf("failed to get child account for %s: %w", childMemberID, err)
	}
	return &account, nil
}
