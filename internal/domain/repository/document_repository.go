package repository

import (
	"context"
	"time"

	"flightsync-service/internal/domain/entity"
)

// PriceHistoryRepository stores per-flight snapshot histories
type PriceHistoryRepository interface {
	// AppendSnapshot pushes a snapshot onto the flight's history, creating the
	// document on first sight. It reports false when the snapshot's event key
	// was already applied.
	AppendSnapshot(ctx context.Context, header entity.PriceHistoryHeader, snapshot entity.PriceSnapshot) (bool, error)
	Summarize(ctx context.Context, flightID int64, since time.Time) (*entity.PriceHistorySummary, error)
	AverageOccupancy(ctx context.Context, flightID int64, since time.Time) (*float64, error)
	ListSnapshots(ctx context.Context, flightID int64, since time.Time) ([]entity.PriceSnapshot, error)
}

// CustomerBehaviorRepository stores customer session activity
type CustomerBehaviorRepository interface {
	RecordBooking(ctx context.Context, customerID int64, sessionID string, activity entity.BehaviorActivity, at time.Time) error
	ClearAbandonedCart(ctx context.Context, customerID, flightID int64) error
}

// ReviewDocumentRepository stores denormalized reviews keyed by (customer, booking)
type ReviewDocumentRepository interface {
	Replace(ctx context.Context, doc entity.ReviewDocument) error
}

// InsightRepository stores the latest insight per flight
type InsightRepository interface {
	Replace(ctx context.Context, insight *entity.Insight) error
	FindByFlightID(ctx context.Context, flightID int64) (*entity.Insight, error)
}

// InsightCache is a read-through cache in front of InsightRepository
type InsightCache interface {
	Get(ctx context.Context, flightID int64) (*entity.Insight, error)
	Set(ctx context.Context, insight *entity.Insight) error
	Delete(ctx context.Context, flightID int64) error
}
