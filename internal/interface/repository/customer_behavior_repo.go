package repository

import (
	"context"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCustomerBehaviorRepository stores per-customer session documents
type MongoCustomerBehaviorRepository struct {
	collection *mongo.Collection
}

// NewMongoCustomerBehaviorRepository creates a new customer behavior repository
func NewMongoCustomerBehaviorRepository(db *mongo.Database) repository.CustomerBehaviorRepository {
	collection := db.Collection("customer_behavior")

	ctx := context.Background()
	sessionIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "customer_id", Value: 1},
			{Key: "session_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	collection.Indexes().CreateOne(ctx, sessionIndex)

	return &MongoCustomerBehaviorRepository{
		collection: collection,
	}
}

// RecordBooking appends the activity to the session, opening it if needed
func (r *MongoCustomerBehaviorRepository) RecordBooking(ctx context.Context, customerID int64, sessionID string, activity entity.BehaviorActivity, at time.Time) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"customer_id": customerID, "session_id": sessionID},
		recordBookingUpdate(activity, at),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to record booking: %w", err)
	}
	return nil
}

func recordBookingUpdate(activity entity.BehaviorActivity, at time.Time) bson.M {
	return bson.M{
		"$push": bson.M{"activities": activity},
		"$set":  bson.M{"is_active": true, "session_end": at},
		"$setOnInsert": bson.M{
			"session_start":   at,
			"search_history":  bson.A{},
			"abandoned_carts": bson.A{},
		},
	}
}

// ClearAbandonedCart removes the flight from every session of the customer
func (r *MongoCustomerBehaviorRepository) ClearAbandonedCart(ctx context.Context, customerID, flightID int64) error {
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{"customer_id": customerID},
		bson.M{"$pull": bson.M{"abandoned_carts": bson.M{"flight_id": flightID}}},
	)
	if err != nil {
		return fmt.Errorf("failed to clear abandoned cart: %w", err)
	}
	return nil
}
