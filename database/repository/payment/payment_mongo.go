package paymentRepo

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

// NewMongoPaymentRepo constructs a repository over the payments collection.
func NewMongoPaymentRepo() *MongoPaymentRepo {
	return &MongoPaymentRepo{
		coll: database.DB().Collection("payments"),
	}
}

// MongoPaymentRepo is the MongoDB implementation of PaymentRepository.
type MongoPaymentRepo struct {
	coll *mongo.Collection
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Create inserts a new payment row.
func (r *MongoPaymentRepo) Create(payment *models.Payment) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetByIntentID retrieves a payment by its Stripe intent ID.
func (r *MongoPaymentRepo) GetByIntentID(intentID string) (*models.Payment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var payment models.Payment
	if err := r.coll.FindOne(ctx, bson.M{"stripe_intent_id": intentID}).Decode(&payment); err != nil {
		return nil, fmt.Errorf("failed to get payment for intent %s: %w", intentID, err)
	}
	return &payment, nil
}

// GetByMember returns all payments for a member, newest first.
func (r *MongoPaymentRepo) GetByMember(memberID string) ([]models.Payment, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"member_id": memberID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments for member %s: %w", memberID, err)
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("failed to decode payments: %w", err)
	}
	return payments, nil
}

// UpdateStatusByIntentID sets the status for the payment matching an intent.
func (r *MongoPaymentRepo) UpdateStatusByIntentID(intentID, status, failureMessage string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	set := bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}
	if failureMessage != "" {
		set["failure_message"] = failureMessage
	}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"stripe_intent_id": intentID}, bson.M{"$set": set}); err != nil {
		return fmt.Errorf("failed to update payment status for intent %s: %w", intentID, err)
	}
	return nil
}
