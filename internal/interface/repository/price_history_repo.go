package repository

import (
	"context"
	"fmt"
	"time"

	"flightsync-service/internal/domain/entity"
	"flightsync-service/internal/domain/repository"
	"flightsync-service/pkg/logger"
	"flightsync-service/pkg/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPriceHistoryRepository keeps one document per flight holding its
// append-only snapshot array
type MongoPriceHistoryRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

const indexTimeout = 10 * time.Second

// NewMongoPriceHistoryRepository creates a new price history repository.
// Index failures are logged; without the unique flight index a replayed
// event appends a second copy of its snapshot.
func NewMongoPriceHistoryRepository(db *mongo.Database, log logger.Logger) repository.PriceHistoryRepository {
	collection := db.Collection("price_history")

	ctx, cancel := context.WithTimeout(context.Background(), indexTimeout)
	defer cancel()
	if err := ensurePriceHistoryIndexes(ctx, collection); err != nil {
		log.Error("Failed to create price history indexes", "collection", collection.Name(), "error", err)
	}

	return &MongoPriceHistoryRepository{
		collection: collection,
		now:        time.Now,
	}
}

func ensurePriceHistoryIndexes(ctx context.Context, collection *mongo.Collection) error {
	// One history document per flight. Event-keyed appends rely on this
	// index to reject an upsert whose key is already present.
	flightIDIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "flight_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	eventKeyIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "price_snapshots.event_key", Value: 1}},
		Options: options.Index().SetSparse(true),
	}

	if _, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{flightIDIndex, eventKeyIndex}); err != nil {
		return fmt.Errorf("create price history indexes: %w", err)
	}
	return nil
}

// AppendSnapshot pushes a snapshot, creating the history document on first
// sight of the flight
func (r *MongoPriceHistoryRepository) AppendSnapshot(ctx context.Context, header entity.PriceHistoryHeader, snapshot entity.PriceSnapshot) (bool, error) {
	_, err := r.collection.UpdateOne(
		ctx,
		appendSnapshotFilter(header.FlightID, snapshot.EventKey),
		appendSnapshotUpdate(header, snapshot, r.now()),
		options.Update().SetUpsert(true),
	)
	if err != nil {
		// The filter missed only because the key is present, and the
		// upsert then collided with the existing flight document.
		if snapshot.EventKey != "" && mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to append snapshot: %w", err)
	}
	return true, nil
}

func appendSnapshotFilter(flightID int64, eventKey string) bson.M {
	filter := bson.M{"flight_id": flightID}
	if eventKey != "" {
		filter["price_snapshots.event_key"] = bson.M{"$ne": eventKey}
	}
	return filter
}

func appendSnapshotUpdate(header entity.PriceHistoryHeader, snapshot entity.PriceSnapshot, now time.Time) bson.M {
	return bson.M{
		"$push": bson.M{"price_snapshots": snapshot},
		"$set":  bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"flight_code": header.FlightCode,
			"route":       header.Route,
			"created_at":  now,
		},
	}
}

// snapshotWindow unwinds the flight's snapshots taken at or after since
func snapshotWindow(flightID int64, since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"flight_id": flightID}}},
		{{Key: "$unwind", Value: "$price_snapshots"}},
		{{Key: "$match", Value: bson.M{"price_snapshots.timestamp": bson.M{"$gte": since}}}},
	}
}

func summaryPipeline(flightID int64, since time.Time) mongo.Pipeline {
	return append(snapshotWindow(flightID, since), bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "avg_price", Value: bson.M{"$avg": "$price_snapshots.current_price"}},
		{Key: "avg_occupancy", Value: bson.M{"$avg": "$price_snapshots.occupancy_rate"}},
		{Key: "min_price", Value: bson.M{"$min": "$price_snapshots.current_price"}},
		{Key: "max_price", Value: bson.M{"$max": "$price_snapshots.current_price"}},
		{Key: "data_points", Value: bson.M{"$sum": 1}},
	}}})
}

func listSnapshotsPipeline(flightID int64, since time.Time) mongo.Pipeline {
	return append(snapshotWindow(flightID, since),
		bson.D{{Key: "$sort", Value: bson.D{{Key: "price_snapshots.timestamp", Value: -1}}}},
		bson.D{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$price_snapshots"}}},
	)
}

type snapshotAggregate struct {
	AvgPrice     float64 `bson:"avg_price"`
	AvgOccupancy float64 `bson:"avg_occupancy"`
	MinPrice     float64 `bson:"min_price"`
	MaxPrice     float64 `bson:"max_price"`
	DataPoints   int     `bson:"data_points"`
}

func (r *MongoPriceHistoryRepository) aggregate(ctx context.Context, flightID int64, since time.Time) (*snapshotAggregate, error) {
	cursor, err := r.collection.Aggregate(ctx, summaryPipeline(flightID, since))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []snapshotAggregate
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// Summarize aggregates the snapshots taken since the given instant. It returns
// nil when there are none.
func (r *MongoPriceHistoryRepository) Summarize(ctx context.Context, flightID int64, since time.Time) (*entity.PriceHistorySummary, error) {
	agg, err := r.aggregate(ctx, flightID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize price history: %w", err)
	}
	if agg == nil {
		return nil, nil
	}
	return &entity.PriceHistorySummary{
		AvgPrice:     utils.Round(agg.AvgPrice, 2),
		AvgOccupancy: utils.Round(agg.AvgOccupancy, 4),
		MinPrice:     agg.MinPrice,
		MaxPrice:     agg.MaxPrice,
		DataPoints:   agg.DataPoints,
	}, nil
}

// AverageOccupancy is the mean occupancy fraction of recent snapshots, nil
// when there are none
func (r *MongoPriceHistoryRepository) AverageOccupancy(ctx context.Context, flightID int64, since time.Time) (*float64, error) {
	agg, err := r.aggregate(ctx, flightID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to average occupancy: %w", err)
	}
	if agg == nil {
		return nil, nil
	}
	avg := agg.AvgOccupancy
	return &avg, nil
}

// ListSnapshots returns snapshots taken since the given instant, newest first
func (r *MongoPriceHistoryRepository) ListSnapshots(ctx context.Context, flightID int64, since time.Time) ([]entity.PriceSnapshot, error) {
	cursor, err := r.collection.Aggregate(ctx, listSnapshotsPipeline(flightID, since))
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	snapshots := make([]entity.PriceSnapshot, 0)
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}
