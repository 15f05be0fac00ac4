package repository

import (
	"context"
	"errors"
	"fmt"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoInsightRepository keeps the latest insight per flight
type MongoInsightRepository struct {
	collection *mongo.Collection
}

// NewMongoInsightRepository creates a new insight repository
func NewMongoInsightRepository(db *mongo.Database) repository.InsightRepository {
	collection := db.Collection("ai_pricing_insights")

	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "flight_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	return &MongoInsightRepository{
		collection: collection,
	}
}

// Replace overwrites the flight's insight; nothing from the old one survives
func (r *MongoInsightRepository) Replace(ctx context.Context, insight *entity.Insight) error {
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"flight_id": insight.FlightID},
		insight,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to replace insight: %w", err)
	}
	return nil
}

// FindByFlightID returns the stored insight, expired or not
func (r *MongoInsightRepository) FindByFlightID(ctx context.Context, flightID int64) (*entity.Insight, error) {
	var insight entity.Insight
	err := r.collection.FindOne(ctx, bson.M{"flight_id": flightID}).Decode(&insight)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}
	return &insight, nil
}
