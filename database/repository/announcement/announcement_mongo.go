package announcementRepo

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

// AnnouncementRepository defines data access for board announcements.
type AnnouncementRepository interface {
	// Create inserts a new announcement.
	Create(announcement *models.Announcement) error
	// GetByID retrieves an announcement by its ID.
	GetByID(id string) (*models.Announcement, error)
	// GetRecent returns the newest announcements, up to limit.
	GetRecent(limit int) ([]models.Announcement, error)
	// MarkSent stamps the sent time on an announcement.
	MarkSent(id string, sentAt time.Time) error
}

// NewMongoAnnouncementRepo constructs a repository over the announcements
// collection.
func NewMongoAnnouncementRepo() *MongoAnnouncementRepo {
	return &MongoAnnouncementRepo{
		coll: database.DB().Collection("announcements"),
	}
}

// MongoAnnouncementRepo is the MongoDB implementation of
// AnnouncementRepository.
type MongoAnnouncementRepo struct {
	coll *mongo.Collection
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new announcement.
func (r *MongoAnnouncementRepo) Create(announcement *models.Announcement) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	announcement.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, announcement); err != nil {
		return fmt.Errorf("failed to create announcement: %w", err)
	}
	return nil
}

// GetByID retrieves an announcement by its ID.
func (r *MongoAnnouncementRepo) GetByID(id string) (*models.Announcement, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var announcement models.Announcement
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&announcement); err != nil {
		return nil, fmt.Errorf("failed to get announcement with id %s: %w", id, err)
	}
	return &announcement, nil
}

// GetRecent returns the newest announcements, up to limit.
func (r *MongoAnnouncementRepo) GetRecent(limit int) ([]models.Announcement, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	defer cursor.Close(ctx)

	var announcements []models.Announcement
	if err := cursor.All(ctx, &announcements); err != nil {
		return nil, fmt.Errorf("failed to decode announcements: %w", err)
	}
	return announcements, nil
}

// MarkSent stamps the sent time on an announcement.
func (r *MongoAnnouncementRepo) MarkSent(id string, sentAt time.Time) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"sent_at": sentAt}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to mark announcement %s sent: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("announcement with id %s not found", id)
	}
	return nil
}
