package repository

import (
	"context"
	"fmt"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReviewDocumentRepository stores denormalized reviews
type MongoReviewDocumentRepository struct {
	collection *mongo.Collection
}

// NewMongoReviewDocumentRepository creates a new review document repository
func NewMongoReviewDocumentRepository(db *mongo.Database) repository.ReviewDocumentRepository {
	collection := db.Collection("flight_reviews")

	ctx := context.Background()
	collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "customer_id", Value: 1},
				{Key: "booking_id", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "flight_id", Value: 1}},
		},
	})

	return &MongoReviewDocumentRepository{
		collection: collection,
	}
}

// Replace writes the whole document for its (customer, booking) key
func (r *MongoReviewDocumentRepository) Replace(ctx context.Context, doc entity.ReviewDocument) error {
	_, err := r.collection.ReplaceOne(
		ctx,
		reviewKey(doc),
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to replace review: %w", err)
	}
	return nil
}

func reviewKey(doc entity.ReviewDocument) bson.M {
	return bson.M{"customer_id": doc.CustomerID, "booking_id": doc.BookingID}
}
