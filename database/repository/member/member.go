package memberRepo

import (
	"context"
	"time"

	"ptaconnect/database"

	"go.mongodb.org/mongo-driver/mongo"
)

// NewMongoMemberRepo constructs a repository over the members collection.
func NewMongoMemberRepo() *MongoMemberRepo {
	return &MongoMemberRepo{
		coll: database.DB().Collection("members"),
	}
}

// MongoMemberRepo is the MongoDB implementation of MemberRepository.
type MongoMemberRepo struct {
	coll *mongo.Collection
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}
