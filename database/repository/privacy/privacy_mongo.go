package privacyRepo

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

// NewMongoPrivacyRepo constructs a repository over the privacy collections.
func NewMongoPrivacyRepo() *MongoPrivacyRepo {
	return &MongoPrivacyRepo{
		settings: database.DB().Collection("privacy_settings"),
		requests: database.DB().Collection("data_requests"),
	}
}

// MongoPrivacyRepo is the MongoDB implementation of PrivacyRepository.
type MongoPrivacyRepo struct {
	settings *mongo.Collection
	requests *mongo.Collection
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// GetSettings returns the settings row for a member.
func (r *MongoPrivacyRepo) GetSettings(memberID string) (*models.PrivacySettings, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var settings models.PrivacySettings
	if err := r.settings.FindOne(ctx, bson.M{"member_id": memberID}).Decode(&settings); err != nil {
		return nil, fmt.Errorf("failed to get privacy settings for member %s: %w", memberID, err)
	}
	return &settings, nil
}

// UpsertSettings creates or replaces the settings row.
func (r *MongoPrivacyRepo) UpsertSettings(settings *models.PrivacySettings) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	settings.UpdatedAt = time.Now()
	filter := bson.M{"member_id": settings.MemberID}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.settings.ReplaceOne(ctx, filter, settings, opts); err != nil {
		return fmt.Errorf("failed to upsert privacy settings for member %s: %w", settings.MemberID, err)
	}
	return nil
}

// SetDirectoryVisible flips only the directory_visible flag. Upserts so the
// cascade works even before the member has a settings row.
func (r *MongoPrivacyRepo) SetDirectoryVisible(memberID string, visible bool) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"directory_visible": visible,
			"updated_at":        time.Now(),
		},
		"$setOnInsert": bson.M{"member_id": memberID},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.settings.UpdateOne(ctx, bson.M{"member_id": memberID}, update, opts); err != nil {
		return fmt.Errorf("failed to set directory visibility for member %s: %w", memberID, err)
	}
	return nil
}

// CreateDataRequest inserts a new export/deletion request row.
func (r *MongoPrivacyRepo) CreateDataRequest(req *models.DataRequest) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	req.RequestedAt = time.Now()
	if _, err := r.requests.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to create data request: %w", err)
	}
	return nil
}

// GetDataRequest returns a request row by ID.
func (r *MongoPrivacyRepo) GetDataRequest(id string) (*models.DataRequest, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var req models.DataRequest
	if err := r.requests.FindOne(ctx, bson.M{"id": id}).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to get data request %s: %w", id, err)
	}
	return &req, nil
}

// UpdateDataRequest persists a status transition on a request row.
func (r *MongoPrivacyRepo) UpdateDataRequest(req *models.DataRequest) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.requests.UpdateOne(ctx, bson.M{"id": req.ID}, bson.M{"$set": req})
	if err != nil {
		return fmt.Errorf("failed to update data request %s: %w", req.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("data request %s not found", req.ID)
	}
	return nil
}

// StaleProcessingRequests returns requests stuck in processing.
func (r *MongoPrivacyRepo) StaleProcessingRequests(olderThanMinutes int) ([]models.DataRequest, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cutoff := time.Now().Add(-time.Duration(olderThanMinutes) * time.Minute)
	filter := bson.M{
		"status":     models.DataRequestProcessing,
		"started_at": bson.M{"$lt": cutoff},
	}
	cursor, err := r.requests.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale data requests: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.DataRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("failed to decode data requests: %w", err)
	}
	return reqs, nil
}
