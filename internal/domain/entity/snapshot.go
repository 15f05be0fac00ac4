package entity

import "time"

// Snapshot sources
const (
	SourcePricingEngine   = "pricing_engine"
	SourceDatabaseTrigger = "database_trigger"
	SourceBulkSync        = "bulk_sync"
)

// PriceSnapshot is one immutable entry of a flight's price history.
// Snapshots are only ever appended. EventKey identifies the source row
// version: an append whose key is already in the history is skipped, an
// empty key always appends.
type PriceSnapshot struct {
	Timestamp       time.Time          `json:"timestamp" bson:"timestamp"`
	BasePrice       float64            `json:"base_price" bson:"base_price"`
	CurrentPrice    float64            `json:"current_price" bson:"current_price"`
	SurgeMultiplier float64            `json:"surge_multiplier" bson:"surge_multiplier"`
	AvailableSeats  int                `json:"available_seats" bson:"available_seats"`
	TotalSeats      int                `json:"total_seats" bson:"total_seats"`
	OccupancyRate   float64            `json:"occupancy_rate" bson:"occupancy_rate"`
	TriggeredBy     string             `json:"triggered_by" bson:"triggered_by"`
	Breakdown       *FactorMultipliers `json:"breakdown,omitempty" bson:"breakdown,omitempty"`
	EventKey        string             `json:"event_key,omitempty" bson:"event_key,omitempty"`
}

// PriceHistoryHeader holds the fields written once when a flight's history
// document is created.
type PriceHistoryHeader struct {
	FlightID   int64
	FlightCode string
	Route      Route
}

// PriceHistorySummary aggregates a flight's snapshots
type PriceHistorySummary struct {
	AvgPrice     float64 `json:"avg_price_30d" bson:"avg_price_30d"`
	AvgOccupancy float64 `json:"avg_occupancy_30d" bson:"avg_occupancy_30d"`
	MinPrice     float64 `json:"min_price" bson:"min_price"`
	MaxPrice     float64 `json:"max_price" bson:"max_price"`
	DataPoints   int     `json:"data_points" bson:"data_points"`
	PriceTrend   string  `json:"price_trend" bson:"price_trend"`
	DemandTrend  string  `json:"demand_trend" bson:"demand_trend"`
}

// UnknownHistory is used when no history could be read
func UnknownHistory() PriceHistorySummary {
	return PriceHistorySummary{PriceTrend: "unknown", DemandTrend: "unknown"}
}
